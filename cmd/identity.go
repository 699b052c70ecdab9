package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var identityConnectClientID string

var identityCmd = &cobra.Command{
	Use:     "identity",
	Aliases: []string{"identities", "id"},
	Short:   "Manage connected Slack identities",
}

var identityConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Authorize a Slack user through the browser",
	Long: `Open the Slack authorization page for a registered app, wait for the
redirect on the local callback server and store the resulting user token.

Connecting a user that is already connected to the same team replaces the
stored token.

Examples:
  fixedphrase identity connect
  fixedphrase identity connect --client-id 123.456`,
	RunE: runIdentityConnect,
}

var identityListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List connected identities",
	RunE:    runIdentityList,
}

func init() {
	rootCmd.AddCommand(identityCmd)
	identityCmd.AddCommand(identityConnectCmd, identityListCmd)

	identityConnectCmd.Flags().StringVar(&identityConnectClientID, "client-id", "", "app to authorize with (defaults to the most recently added)")
}

func runIdentityConnect(cmd *cobra.Command, _ []string) error {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("Opening Slack in your browser..."))

	identity, err := rt.svc.Connect(cmd.Context(), identityConnectClientID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != formatTable {
		return render(out, newIdentityView(identity), nil)
	}

	printSuccess(out, "Connected %s (%s) on %s", identity.DisplayName(), identity.User.ID, identity.Team.Name)

	return nil
}

func runIdentityList(cmd *cobra.Command, _ []string) error {
	ids := rt.svc.Identities(cmd.Context())
	out := cmd.OutOrStdout()

	if len(ids) == 0 && outputFormat == formatTable {
		printEmptyResult(out, "identities connected", "fixedphrase identity connect")
		return nil
	}

	views := newIdentityViews(ids)

	return render(out, views, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, headerStyle.Render("USER")+"\t"+headerStyle.Render("NAME")+"\t"+headerStyle.Render("TEAM"))

		for _, v := range views {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", v.UserID, v.DisplayName, v.TeamName)
		}
	})
}

// resolveUser returns flag, or the only connected user when flag is empty.
func resolveUser(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	seen := map[string]struct{}{}

	var userID string

	for _, id := range rt.svc.Identities(cmd.Context()) {
		if _, ok := seen[id.User.ID]; ok {
			continue
		}

		seen[id.User.ID] = struct{}{}
		userID = id.User.ID
	}

	switch len(seen) {
	case 0:
		return "", errors.New("no identity connected; run: fixedphrase identity connect")
	case 1:
		return userID, nil
	default:
		return "", errors.New("several identities connected; choose one with --user")
	}
}
