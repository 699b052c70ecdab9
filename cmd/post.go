package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/spf13/cobra"
)

var (
	postUser    string
	postChannel string
	postText    string
)

var postCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Post a message as a connected user",
	Long: `Post a message to a channel as a connected user and record it in that
user's history. The text comes from --text or the remaining arguments.

Examples:
  fixedphrase post --channel C0123 --text "standup in 5"
  fixedphrase post -u U0456 -c C0123 lunch anyone?`,
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVarP(&postUser, "user", "u", "", "Slack user id (defaults to the only connected user)")
	postCmd.Flags().StringVarP(&postChannel, "channel", "c", "", "channel id")
	postCmd.Flags().StringVarP(&postText, "text", "t", "", "message text")
	_ = postCmd.MarkFlagRequired("channel")
}

func runPost(cmd *cobra.Command, args []string) error {
	text := postText
	if text == "" {
		text = strings.Join(args, " ")
	}

	if text == "" {
		return errors.New("message text is required")
	}

	userID, err := resolveUser(cmd, postUser)
	if err != nil {
		return err
	}

	resp, err := rt.svc.PostMessage(cmd.Context(), userID, model.PostMessage{Channel: postChannel, Text: text})
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), resp, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, successStyle.Render(fmt.Sprintf("Posted to %s at %s", resp.Channel, resp.TS)))
	})
}
