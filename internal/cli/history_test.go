package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/stretchr/testify/require"
)

func testItems() []model.HistoryItem {
	return []model.HistoryItem{
		{User: "U1", Call: model.SetStatus{StatusText: "away", StatusEmoji: ":palm_tree:"}},
		{User: "U1", Call: model.PostMessage{Channel: "C1", Text: "hi"}},
	}
}

func TestHistoryPicker_Enter(t *testing.T) {
	m := NewHistoryPicker("History", testItems())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	index, picked := next.(HistoryPickerModel).Choice()
	require.True(t, picked)
	require.Equal(t, 1, index)
	require.Empty(t, next.View())
}

func TestHistoryPicker_Quit(t *testing.T) {
	m := NewHistoryPicker("History", testItems())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	_, picked := next.(HistoryPickerModel).Choice()
	require.False(t, picked)
	require.Contains(t, next.View(), "Nothing replayed")
}

func TestHistoryPicker_View(t *testing.T) {
	m := NewHistoryPicker("History", testItems())

	view := m.View()
	require.Contains(t, view, "History")
	require.Contains(t, view, "set-status")
	require.Contains(t, view, "C1: hi")
}

func TestHistoryPicker_SkipsEmptyCalls(t *testing.T) {
	items := append([]model.HistoryItem{{User: "U1"}}, testItems()...)
	m := NewHistoryPicker("History", items)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	index, picked := next.(HistoryPickerModel).Choice()
	require.True(t, picked)
	require.Equal(t, 1, index)
}
