package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/spf13/cobra"
)

var (
	statusUser       string
	statusText       string
	statusEmoji      string
	statusExpiration int64
	statusFor        time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Set the Slack status of a connected user",
	Long: `Set the status text and emoji of a connected user and record it in that
user's history. An empty text and emoji clears the status.

--expiration is a Unix timestamp; --for sets it relative to now. Zero never
expires.

Examples:
  fixedphrase status --text "in a meeting" --emoji :calendar: --for 1h
  fixedphrase status --text ""`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusUser, "user", "u", "", "Slack user id (defaults to the only connected user)")
	statusCmd.Flags().StringVarP(&statusText, "text", "t", "", "status text")
	statusCmd.Flags().StringVarP(&statusEmoji, "emoji", "e", "", "status emoji, e.g. :palm_tree:")
	statusCmd.Flags().Int64Var(&statusExpiration, "expiration", 0, "Unix time the status expires at")
	statusCmd.Flags().DurationVar(&statusFor, "for", 0, "expire the status after this long")
	statusCmd.MarkFlagsMutuallyExclusive("expiration", "for")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, statusUser)
	if err != nil {
		return err
	}

	expiration := statusExpiration
	if statusFor > 0 {
		expiration = time.Now().Add(statusFor).Unix()
	}

	status := model.SetStatus{
		StatusText:       statusText,
		StatusEmoji:      statusEmoji,
		StatusExpiration: expiration,
	}

	resp, err := rt.svc.SetStatus(cmd.Context(), userID, status)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), resp, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, successStyle.Render("Status set: "+status.Summary()))
	})
}
