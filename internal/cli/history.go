package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/fixedphrase/internal/model"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	tagStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

type historyItem struct {
	index int
	item  model.HistoryItem
}

func (i historyItem) FilterValue() string { return i.item.Call.Summary() }

type historyDelegate struct{}

func (d historyDelegate) Height() int                             { return 1 }
func (d historyDelegate) Spacing() int                            { return 0 }
func (d historyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d historyDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(historyItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s %s", i.index, tagStyle.Render(string(i.item.API())), i.item.Call.Summary())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + s[0])
		}
	}

	_, _ = fmt.Fprint(w, fn(str))
}

// HistoryPickerModel lets the user pick one recorded call.
type HistoryPickerModel struct {
	list     list.Model
	chosen   int
	picked   bool
	quitting bool
}

func (m HistoryPickerModel) Init() tea.Cmd {
	return nil
}

func (m HistoryPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)

		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch keypress := msg.String(); keypress {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(historyItem); ok {
				m.chosen = i.index
				m.picked = true
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m HistoryPickerModel) View() string {
	if m.picked {
		return ""
	}

	if m.quitting {
		return "Nothing replayed.\n"
	}

	return "\n" + m.list.View()
}

// Choice returns the history index the user picked.
func (m HistoryPickerModel) Choice() (int, bool) {
	return m.chosen, m.picked
}

// NewHistoryPicker lists items in their stored order; index 0 is the most
// recent call.
func NewHistoryPicker(title string, items []model.HistoryItem) HistoryPickerModel {
	listItems := make([]list.Item, 0, len(items))
	for i, item := range items {
		if item.Call == nil {
			continue
		}

		listItems = append(listItems, historyItem{index: i, item: item})
	}

	const defaultWidth = 60

	height := min(len(listItems)+10, 20)

	l := list.New(listItems, historyDelegate{}, defaultWidth, height)
	l.Title = title
	l.SetShowStatusBar(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return HistoryPickerModel{list: l}
}

// PickHistory runs the picker and returns the chosen index.
func PickHistory(title string, items []model.HistoryItem) (int, bool, error) {
	p := tea.NewProgram(NewHistoryPicker(title, items))

	finalModel, err := p.Run()
	if err != nil {
		return 0, false, err
	}

	picker, ok := finalModel.(HistoryPickerModel)
	if !ok {
		return 0, false, nil
	}

	index, picked := picker.Choice()

	return index, picked, nil
}
