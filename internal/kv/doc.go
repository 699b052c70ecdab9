// Package kv provides the string-keyed persistence substrate behind the
// record store.
//
// Every backend implements [Store]: a value is read with Get and replaced
// with Set. An absent key is reported with ok == false, never as an error.
//
// Backends:
//   - [Bolt]: embedded BoltDB file (default)
//   - [SQLite]: single kv table in a pure Go SQLite database
//   - [Redis]: one Redis string per key
//   - [S3]: one object per key in an S3 compatible bucket
//   - [Memory]: process-local map, used by tests
//
// [Sealed] wraps any backend and encrypts values at rest.
package kv
