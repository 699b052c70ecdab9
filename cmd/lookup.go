package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	lookupUser string
	emojiLimit int
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the channels of the user's team",
	RunE:  runChannels,
}

var emojiCmd = &cobra.Command{
	Use:   "emoji",
	Short: "List the custom emoji of the user's team",
	RunE:  runEmoji,
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show the user's team",
	RunE:  runTeam,
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"whoami"},
	Short:   "Show the user's current Slack profile and status",
	RunE:    runProfile,
}

func init() {
	for _, c := range []*cobra.Command{channelsCmd, emojiCmd, teamCmd, profileCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&lookupUser, "user", "u", "", "Slack user id (defaults to the only connected user)")
	}

	emojiCmd.Flags().IntVar(&emojiLimit, "limit", 0, "maximum number of emoji to fetch (0 for the server default)")
}

func runChannels(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, lookupUser)
	if err != nil {
		return err
	}

	channels, err := rt.svc.Channels(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), channels, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, headerStyle.Render("ID")+"\t"+headerStyle.Render("NAME")+"\t"+headerStyle.Render("MEMBERS")+"\t"+headerStyle.Render("TOPIC"))

		for _, c := range channels {
			_, _ = fmt.Fprintf(tw, "%s\t#%s\t%d\t%s\n", c.ID, c.Name, c.NumMembers, truncateString(c.Topic.Value, 50))
		}
	})
}

func runEmoji(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, lookupUser)
	if err != nil {
		return err
	}

	emoji, err := rt.svc.Emoji(cmd.Context(), userID, emojiLimit)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(emoji))
	for name := range emoji {
		names = append(names, name)
	}

	sort.Strings(names)

	return render(cmd.OutOrStdout(), emoji, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintln(tw, headerStyle.Render("NAME")+"\t"+headerStyle.Render("VALUE"))

		for _, name := range names {
			_, _ = fmt.Fprintf(tw, ":%s:\t%s\n", name, dimStyle.Render(emoji[name]))
		}
	})
}

func runTeam(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, lookupUser)
	if err != nil {
		return err
	}

	team, err := rt.svc.Team(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), team, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintf(tw, "ID\t%s\n", team.ID)
		_, _ = fmt.Fprintf(tw, "Name\t%s\n", team.Name)
		_, _ = fmt.Fprintf(tw, "Domain\t%s\n", team.Domain)
	})
}

func runProfile(cmd *cobra.Command, _ []string) error {
	userID, err := resolveUser(cmd, lookupUser)
	if err != nil {
		return err
	}

	user, err := rt.svc.Profile(cmd.Context(), userID)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), user, func(tw *tabwriter.Writer) {
		_, _ = fmt.Fprintf(tw, "ID\t%s\n", user.ID)
		_, _ = fmt.Fprintf(tw, "Name\t%s\n", user.Name)
		_, _ = fmt.Fprintf(tw, "Real name\t%s\n", user.Profile.RealName)
		_, _ = fmt.Fprintf(tw, "Status\t%s %s\n", user.Profile.StatusEmoji, user.Profile.StatusText)
	})
}
