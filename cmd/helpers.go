package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/fixedphrase/internal/model"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// render writes v as JSON or YAML, or calls table for the default format.
func render(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	switch outputFormat {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)

		return tw.Flush()
	}
}

// printEmptyResult prints a "no results" message with a create hint
func printEmptyResult(w io.Writer, resourceType, createCmd string) {
	_, _ = fmt.Fprintf(w, "No %s yet.\n", resourceType)

	if createCmd != "" {
		_, _ = fmt.Fprintf(w, "Create one with: %s\n", createCmd)
	}
}

// printSuccess prints a confirmation line in table mode only.
func printSuccess(w io.Writer, format string, args ...any) {
	if outputFormat != formatTable {
		return
	}

	_, _ = fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")

	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}

// promptSecret reads a secret from the terminal without echo, or one line
// from stdin when it is not a terminal.
func promptSecret(in io.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprintf(out, "%s: ", label)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(out)

		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}

	return strings.TrimSpace(line), nil
}

// applicationView is an Application without its secret.
type applicationView struct {
	Name     string `json:"name" yaml:"name"`
	ClientID string `json:"client_id" yaml:"client_id"`
}

func newApplicationViews(apps []model.Application) []applicationView {
	out := make([]applicationView, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationView{Name: a.Name, ClientID: a.ClientID})
	}

	return out
}

// identityView is an Identity without its token.
type identityView struct {
	UserID      string `json:"user_id" yaml:"user_id"`
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	TeamID      string `json:"team_id" yaml:"team_id"`
	TeamName    string `json:"team_name" yaml:"team_name"`
	TeamDomain  string `json:"team_domain,omitempty" yaml:"team_domain,omitempty"`
}

func newIdentityView(id model.Identity) identityView {
	return identityView{
		UserID:      id.User.ID,
		Name:        id.User.Name,
		DisplayName: id.DisplayName(),
		TeamID:      id.Team.ID,
		TeamName:    id.Team.Name,
		TeamDomain:  id.Team.Domain,
	}
}

func newIdentityViews(ids []model.Identity) []identityView {
	out := make([]identityView, 0, len(ids))
	for _, id := range ids {
		out = append(out, newIdentityView(id))
	}

	return out
}

// historyView is one numbered history entry.
type historyView struct {
	Index   int               `json:"index" yaml:"index"`
	Summary string            `json:"summary" yaml:"summary"`
	Item    model.HistoryItem `json:"item" yaml:"item"`
}

func newHistoryViews(items []model.HistoryItem) []historyView {
	out := make([]historyView, 0, len(items))

	for i, item := range items {
		summary := ""
		if item.Call != nil {
			summary = item.Call.Summary()
		}

		out = append(out, historyView{Index: i, Summary: summary, Item: item})
	}

	return out
}
