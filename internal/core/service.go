package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cli/browser"
	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/replay"
	"github.com/inovacc/fixedphrase/internal/slack"
	"github.com/inovacc/fixedphrase/internal/store"
)

// OAuthOptions tunes the browser authorization used by Connect.
type OAuthOptions struct {
	UserScope   string
	Port        int
	RedirectURI string
	Timeout     time.Duration
}

// Options configures a Service.
type Options struct {
	Store  *store.Store
	Client *slack.Client
	Logger *slog.Logger
	OAuth  OAuthOptions

	// RecordReplays moves a successfully replayed call to the front of the
	// history.
	RecordReplays bool

	// OpenBrowser opens the authorize URL; defaults to the system browser.
	OpenBrowser func(url string) error
}

// Service orchestrates identities, Slack calls and history.
type Service struct {
	store         *store.Store
	client        *slack.Client
	dispatcher    *replay.Dispatcher
	logger        *slog.Logger
	oauth         OAuthOptions
	recordReplays bool
	openBrowser   func(string) error
}

// NewService creates a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := opts.Client
	if client == nil {
		client = slack.NewClient(slack.ClientOptions{Logger: logger})
	}

	openBrowser := opts.OpenBrowser
	if openBrowser == nil {
		openBrowser = browser.OpenURL
	}

	return &Service{
		store:         opts.Store,
		client:        client,
		dispatcher:    replay.NewDispatcher(opts.Store.Identities, client, logger),
		logger:        logger,
		oauth:         opts.OAuth,
		recordReplays: opts.RecordReplays,
		openBrowser:   openBrowser,
	}, nil
}

// RegisterApplication stores app, replacing any app with the same client id.
func (s *Service) RegisterApplication(ctx context.Context, app model.Application) error {
	if app.ClientID == "" || app.ClientSecret == "" {
		return ErrInvalidApplication
	}

	if app.Name == "" {
		app.Name = app.ClientID
	}

	if err := s.store.Applications.Add(ctx, app); err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}

	s.logger.Info("application registered", "name", app.Name, "client_id", app.ClientID)

	return nil
}

// Applications lists registered apps, most recent first.
func (s *Service) Applications(ctx context.Context) []model.Application {
	return s.store.Applications.List(ctx)
}

// Identities lists connected identities, most recent first.
func (s *Service) Identities(ctx context.Context) []model.Identity {
	return s.store.Identities.List(ctx)
}

// History lists userID's recorded calls, most recent first.
func (s *Service) History(ctx context.Context, userID string) []model.HistoryItem {
	return s.store.History.ListFor(ctx, userID)
}

func (s *Service) identity(ctx context.Context, userID string) (model.Identity, error) {
	id, ok := s.store.Identities.Find(ctx, userID)
	if !ok {
		return model.Identity{}, fmt.Errorf("user %q: %w", userID, replay.ErrMissingCredential)
	}

	return id, nil
}

func (s *Service) application(ctx context.Context, clientID string) (model.Application, error) {
	if clientID == "" {
		apps := s.store.Applications.List(ctx)
		if len(apps) == 0 {
			return model.Application{}, ErrNoApplication
		}

		return apps[0], nil
	}

	app, ok := s.store.Applications.Get(ctx, clientID)
	if !ok {
		return model.Application{}, &ApplicationNotFoundError{ClientID: clientID}
	}

	return app, nil
}
