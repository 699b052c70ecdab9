package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoApplication is returned when Connect has no registered app to use.
	ErrNoApplication = errors.New("no application registered")

	// ErrInvalidApplication is returned for an application without credentials.
	ErrInvalidApplication = errors.New("application needs a client id and a client secret")
)

// ApplicationNotFoundError indicates no app is registered under a client id
type ApplicationNotFoundError struct {
	ClientID string
}

func (e *ApplicationNotFoundError) Error() string {
	return fmt.Sprintf("no application registered with client id %q", e.ClientID)
}

// HistoryIndexError indicates a replay index outside the user's history
type HistoryIndexError struct {
	UserID string
	Index  int
	Len    int
}

func (e *HistoryIndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("history of %s is empty", e.UserID)
	}

	return fmt.Sprintf("history index %d out of range for %s (0..%d)", e.Index, e.UserID, e.Len-1)
}
