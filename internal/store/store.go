package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/inovacc/fixedphrase/internal/kv"
	"github.com/inovacc/fixedphrase/internal/model"
)

// Options configures a Store.
type Options struct {
	Logger *slog.Logger
	// HistoryLimit caps each user's history; 0 keeps everything.
	HistoryLimit int
}

// Store holds the three record collections.
type Store struct {
	Applications *Applications
	Identities   *Identities
	History      *History
}

// New builds a Store on top of the given substrate.
func New(substrate kv.Store, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		Applications: &Applications{c: collection[model.Application]{
			kv:     substrate,
			key:    keyApplications,
			keyOf:  applicationKey,
			logger: logger,
		}},
		Identities: &Identities{c: collection[model.Identity]{
			kv:     substrate,
			key:    keyIdentities,
			keyOf:  identityKey,
			logger: logger,
		}},
		History: &History{
			kv:     substrate,
			limit:  opts.HistoryLimit,
			logger: logger,
		},
	}
}

func applicationKey(a model.Application) (string, error) {
	return a.Key(), nil
}

func identityKey(i model.Identity) (string, error) {
	k := i.Key()
	return k.UserID + "\x00" + k.TeamID, nil
}

func historyItemKey(h model.HistoryItem) (string, error) {
	return h.ContentKey()
}

// Applications is the collection of registered Slack apps.
type Applications struct {
	c collection[model.Application]
}

// List returns every application, most recently added first.
func (a *Applications) List(ctx context.Context) []model.Application {
	return a.c.list(ctx)
}

// Add upserts app by client id and moves it to the front.
func (a *Applications) Add(ctx context.Context, app model.Application) error {
	if app.ClientID == "" {
		return errors.New("application client id is required")
	}

	return a.c.add(ctx, app)
}

// Get returns the application registered under clientID.
func (a *Applications) Get(ctx context.Context, clientID string) (model.Application, bool) {
	for _, app := range a.List(ctx) {
		if app.ClientID == clientID {
			return app, true
		}
	}

	return model.Application{}, false
}

// Identities is the collection of completed OAuth grants.
type Identities struct {
	c collection[model.Identity]
}

// List returns every identity, most recently added first.
func (i *Identities) List(ctx context.Context) []model.Identity {
	return i.c.list(ctx)
}

// Add stores a copy of id, replacing any grant for the same user and team.
func (i *Identities) Add(ctx context.Context, id model.Identity) error {
	if id.User.ID == "" || id.Team.ID == "" {
		return errors.New("identity user id and team id are required")
	}

	return i.c.add(ctx, id.Clone())
}

// Find returns the most recently added identity for userID.
func (i *Identities) Find(ctx context.Context, userID string) (model.Identity, bool) {
	for _, id := range i.List(ctx) {
		if id.User.ID == userID {
			return id, true
		}
	}

	return model.Identity{}, false
}

// Index maps user id to its most recently added identity.
func (i *Identities) Index(ctx context.Context) map[string]model.Identity {
	ids := i.List(ctx)
	out := make(map[string]model.Identity, len(ids))

	for _, id := range ids {
		if _, seen := out[id.User.ID]; !seen {
			out[id.User.ID] = id
		}
	}

	return out
}

// History holds one ordered collection per user.
type History struct {
	kv     kv.Store
	limit  int
	logger *slog.Logger
}

func (h *History) collection(userID string) collection[model.HistoryItem] {
	return collection[model.HistoryItem]{
		kv:     h.kv,
		key:    historyKey(userID),
		keyOf:  historyItemKey,
		limit:  h.limit,
		logger: h.logger,
	}
}

// ListFor returns userID's history, most recent first.
func (h *History) ListFor(ctx context.Context, userID string) []model.HistoryItem {
	return h.collection(userID).list(ctx)
}

// AddFor records item in userID's history. An item whose api and data equal
// an existing entry replaces it at the front.
func (h *History) AddFor(ctx context.Context, userID string, item model.HistoryItem) error {
	if userID == "" {
		return errors.New("history user id is required")
	}

	if item.Call == nil {
		return errors.New("history item has no call")
	}

	if item.User == "" {
		item.User = userID
	}

	if item.User != userID {
		return fmt.Errorf("history item belongs to %q, not %q", item.User, userID)
	}

	return h.collection(userID).add(ctx, item)
}
