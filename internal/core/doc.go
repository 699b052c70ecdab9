// Package core provides the business logic layer for fixedphrase.
//
// This package contains all core functionality separated from UI concerns.
// It resolves identities, calls Slack, and records history; the cmd and cli
// packages only collect input and render results.
//
// # Design Principles
//
//   - Functions return errors instead of printing to stdout/stderr
//   - All persistence goes through the record store
//   - A call is recorded in history only after Slack accepted it
//
// # Replay
//
// [Service.Replay] re-issues a stored call with the current token of its
// owner. A successful replay moves the entry to the front of the history
// unless recording replays is disabled.
package core
