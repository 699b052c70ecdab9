// Package replay re-issues recorded calls with the owning user's current
// token.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/slack"
)

var (
	// ErrMissingCredential is returned when no identity holds a token for
	// the item's user.
	ErrMissingCredential = errors.New("no stored identity for user")

	// ErrUnsupportedOperation is returned for a call that cannot be replayed.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Credentials resolves the identity whose token replays a user's calls.
type Credentials interface {
	Find(ctx context.Context, userID string) (model.Identity, bool)
}

// Caller performs the remote operations a recorded call can name.
type Caller interface {
	PostMessage(ctx context.Context, token string, msg model.PostMessage) (*slack.PostMessageResponse, error)
	SetStatus(ctx context.Context, token string, status model.SetStatus) (*slack.SetProfileResponse, error)
}

// Response is a decoded Web API reply.
type Response interface {
	Err(op string) error
}

// Result is the raw reply of one replayed call.
type Result struct {
	Op       string
	Response Response
}

// Err reports an ok=false reply.
func (r Result) Err() error {
	if r.Response == nil {
		return nil
	}

	return r.Response.Err(r.Op)
}

// Dispatcher maps a history item to the remote call its tag names.
type Dispatcher struct {
	credentials Credentials
	caller      Caller
	logger      *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards output.
func NewDispatcher(credentials Credentials, caller Caller, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Dispatcher{
		credentials: credentials,
		caller:      caller,
		logger:      logger,
	}
}

// Replay invokes item's call with the token of the identity owning item.User.
// It never touches history and makes at most one network call.
func (d *Dispatcher) Replay(ctx context.Context, item model.HistoryItem) (Result, error) {
	if item.Call == nil {
		return Result{}, fmt.Errorf("history item has no call: %w", ErrUnsupportedOperation)
	}

	// Unknown calls fail before any credential lookup.
	if _, ok := item.Call.(model.UnknownCall); ok {
		return Result{}, fmt.Errorf("%s: %w", item.API(), ErrUnsupportedOperation)
	}

	identity, ok := d.credentials.Find(ctx, item.User)
	if !ok {
		return Result{}, fmt.Errorf("replay %s for %q: %w", item.API(), item.User, ErrMissingCredential)
	}

	d.logger.Debug("replaying call", "user", item.User, "team", identity.Team.ID, "api", item.API())

	switch call := item.Call.(type) {
	case model.PostMessage:
		resp, err := d.caller.PostMessage(ctx, identity.Token, call)
		if err != nil {
			return Result{}, err
		}

		return Result{Op: "chat.postMessage", Response: resp}, nil
	case model.SetStatus:
		resp, err := d.caller.SetStatus(ctx, identity.Token, call)
		if err != nil {
			return Result{}, err
		}

		return Result{Op: "users.profile.set", Response: resp}, nil
	default:
		return Result{}, fmt.Errorf("%s: %w", item.API(), ErrUnsupportedOperation)
	}
}
