// Package cli provides the terminal user interface components for fixedphrase.
//
// The package uses [Bubbletea] for building interactive terminal UIs and
// [Lipgloss] for styling. All UI components follow the standard Bubbletea
// Model-View-Update (MVU) architecture.
//
// # Components
//
//   - HistoryPicker: list of a user's recorded calls; enter picks one to replay
//
// Components never call Slack or the store themselves. They return the
// user's choice and the cmd package acts on it.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
