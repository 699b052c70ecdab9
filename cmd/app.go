package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/spf13/cobra"
)

var (
	appAddName         string
	appAddClientID     string
	appAddClientSecret string
)

var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"apps", "application"},
	Short:   "Manage the Slack apps used to authorize identities",
}

var appAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a Slack app",
	Long: `Register the client id and secret of a Slack app. Registering the same
client id again replaces the stored app.

The app needs the redirect URL http://localhost:8338/slack/callback (or the
one set with oauth.redirect_uri) and the user scopes fixedphrase requests.

When --client-secret is omitted it is read from the terminal without echo.

Examples:
  fixedphrase app add --name Acme --client-id 123.456
  fixedphrase app add --client-id 123.456 --client-secret s3cr3t`,
	RunE: runAppAdd,
}

var appListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered Slack apps",
	RunE:    runAppList,
}

func init() {
	rootCmd.AddCommand(appCmd)
	appCmd.AddCommand(appAddCmd, appListCmd)

	appAddCmd.Flags().StringVar(&appAddName, "name", "", "display name (defaults to the client id)")
	appAddCmd.Flags().StringVar(&appAddClientID, "client-id", "", "Slack app client id")
	appAddCmd.Flags().StringVar(&appAddClientSecret, "client-secret", "", "Slack app client secret")
	_ = appAddCmd.MarkFlagRequired("client-id")
}

func runAppAdd(cmd *cobra.Command, _ []string) error {
	secret := appAddClientSecret
	if secret == "" {
		s, err := promptSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Client secret")
		if err != nil {
			return err
		}

		secret = s
	}

	app := model.Application{Name: appAddName, ClientID: appAddClientID, ClientSecret: secret}
	if err := rt.svc.RegisterApplication(cmd.Context(), app); err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Registered app %s", appAddClientID)

	return nil
}

func runAppList(cmd *cobra.Command, _ []string) error {
	apps := rt.svc.Applications(cmd.Context())
	out := cmd.OutOrStdout()

	if len(apps) == 0 && outputFormat == formatTable {
		printEmptyResult(out, "apps registered", "fixedphrase app add --client-id <id>")
		return nil
	}

	return render(out, newApplicationViews(apps), func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, headerStyle.Render("NAME")+"\t"+headerStyle.Render("CLIENT ID"))

		for _, a := range apps {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.ClientID)
		}
	})
}
