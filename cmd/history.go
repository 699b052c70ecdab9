package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inovacc/fixedphrase/internal/cli"
	"github.com/inovacc/fixedphrase/internal/replay"
	"github.com/spf13/cobra"
)

var (
	historyUser  string
	historyIndex int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and replay recorded calls",
	Long: `Every message and status fixedphrase sends is recorded per user, most
recent first. Sending the same call again moves it back to the top instead of
adding a duplicate.`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a user's recorded calls",
	RunE:    runHistoryList,
}

var historyReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Send a recorded call again",
	Long: `Send the recorded call at --index (0 is the most recent) again with the
user's current token.

Examples:
  fixedphrase history replay --index 2
  fixedphrase history replay -u U0456 -i 0`,
	RunE: runHistoryReplay,
}

var historyPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a recorded call interactively and send it again",
	RunE:  runHistoryPick,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyReplayCmd, historyPickCmd)

	for _, c := range []*cobra.Command{historyListCmd, historyReplayCmd, historyPickCmd} {
		c.Flags().StringVarP(&historyUser, "user", "u", "", "Slack user id (defaults to the only connected user)")
	}

	historyReplayCmd.Flags().IntVarP(&historyIndex, "index", "i", 0, "history index to replay")
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, historyUser)
	if err != nil {
		return err
	}

	items := rt.svc.History(cmd.Context(), userID)
	out := cmd.OutOrStdout()

	if len(items) == 0 && outputFormat == formatTable {
		printEmptyResult(out, "calls recorded for "+userID, "fixedphrase post --channel <id> --text <text>")
		return nil
	}

	views := newHistoryViews(items)

	return render(out, views, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, headerStyle.Render("#")+"\t"+headerStyle.Render("API")+"\t"+headerStyle.Render("CALL"))

		for _, v := range views {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", v.Index, v.Item.API(), truncateString(v.Summary, 60))
		}
	})
}

func runHistoryReplay(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, historyUser)
	if err != nil {
		return err
	}

	result, err := rt.svc.Replay(cmd.Context(), userID, historyIndex)

	return reportReplay(cmd.OutOrStdout(), result, err)
}

func runHistoryPick(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, historyUser)
	if err != nil {
		return err
	}

	items := rt.svc.History(cmd.Context(), userID)
	if len(items) == 0 {
		printEmptyResult(cmd.OutOrStdout(), "calls recorded for "+userID, "fixedphrase post --channel <id> --text <text>")
		return nil
	}

	index, picked, err := cli.PickHistory("History of "+userID, items)
	if err != nil {
		return err
	}

	if !picked {
		return nil
	}

	result, err := rt.svc.ReplayItem(cmd.Context(), items[index])

	return reportReplay(cmd.OutOrStdout(), result, err)
}

func reportReplay(w io.Writer, result replay.Result, err error) error {
	switch {
	case errors.Is(err, replay.ErrMissingCredential):
		return fmt.Errorf("%w; connect the user with: fixedphrase identity connect", err)
	case err != nil:
		return err
	}

	return render(w, result.Response, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, successStyle.Render("Replayed "+result.Op))
	})
}
