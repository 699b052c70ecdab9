package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/inovacc/fixedphrase/internal/application"
	"github.com/inovacc/fixedphrase/internal/config"
	"github.com/inovacc/fixedphrase/internal/core"
	"github.com/inovacc/fixedphrase/internal/kv"
	"github.com/inovacc/fixedphrase/internal/slack"
	"github.com/inovacc/fixedphrase/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile      string
	storeBackend string
	logLevel     string
	outputFormat string
)

// runtime is what every subcommand works against. It is built once per
// invocation by the root PersistentPreRunE.
type runtime struct {
	cfg    *config.Config
	kv     kv.Store
	svc    *core.Service
	logger *slog.Logger
}

var rt *runtime

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Post messages and set Slack status as yourself, and replay them",
	Long: `fixedphrase keeps Slack user tokens for the identities you connect and
records every message and status it sends on your behalf, so any of them can
be sent again with one command.

Get started:
  fixedphrase app add --name Acme --client-id 123.456
  fixedphrase identity connect
  fixedphrase post --channel C0123 --text "standup in 5"
  fixedphrase history pick`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	// PersistentPostRunE is skipped when a command fails.
	if cerr := closeRuntime(); cerr != nil && err == nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", cerr)
		err = cerr
	}

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is config.yaml in the application directory)")
	flags.StringVar(&storeBackend, "store", "", "record store backend: bolt, sqlite, redis, s3 or memory")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVarP(&outputFormat, "output", "o", formatTable, "output format: table, json or yaml")
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	_ = closeRuntime()

	flags := cmd.Root().PersistentFlags()

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cfgFile,
		Flags: map[string]*pflag.Flag{
			"store.backend": flags.Lookup("store"),
			"log.level":     flags.Lookup("log-level"),
		},
	})
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())

	substrate, err := kv.Open(cmd.Context(), cfg.KVOptions())
	if err != nil {
		return err
	}

	logger.Debug("record store opened", "backend", cfg.Store.Backend)

	svc, err := core.NewService(core.Options{
		Store: store.New(substrate, store.Options{
			Logger:       logger,
			HistoryLimit: cfg.History.Limit,
		}),
		Client: slack.NewClient(slack.ClientOptions{
			BaseURL: cfg.Slack.BaseURL,
			Logger:  logger,
		}),
		Logger: logger,
		OAuth: core.OAuthOptions{
			UserScope:   cfg.OAuth.UserScope,
			Port:        cfg.OAuth.Port,
			RedirectURI: cfg.OAuth.RedirectURI,
			Timeout:     cfg.OAuth.Timeout,
		},
		RecordReplays: cfg.History.RecordReplays,
	})
	if err != nil {
		_ = substrate.Close()
		return err
	}

	rt = &runtime{cfg: cfg, kv: substrate, svc: svc, logger: logger}

	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	return closeRuntime()
}

func closeRuntime() error {
	if rt == nil {
		return nil
	}

	err := rt.kv.Close()
	rt = nil

	if err != nil {
		return fmt.Errorf("failed to close record store: %w", err)
	}

	return nil
}
