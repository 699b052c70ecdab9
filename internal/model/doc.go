// Package model defines the records fixedphrase persists and replays.
//
// # Application
//
// An [Application] is a Slack app credential pair used to start OAuth:
//
//	type Application struct {
//	    Name         string // display label, not unique
//	    ClientID     string // unique key
//	    ClientSecret string
//	}
//
// # Identity
//
// An [Identity] is the result of a completed OAuth flow: one user on one
// team together with its user token. It is keyed by (User.ID, Team.ID).
//
// # HistoryItem
//
// A [HistoryItem] records one call made for a user. The call itself is a
// [Call], a closed set of variants ([PostMessage], [SetStatus]) each carrying
// its own typed payload. On disk an item is stored as
//
//	{"user": "U123", "api": "post-message", "data": {"channel": "C1", "text": "hi"}}
//
// Records with an unrecognised api tag decode to [UnknownCall].
package model
