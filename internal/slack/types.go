// Package slack shapes and executes the Slack Web API calls fixedphrase makes,
// and runs the local OAuth callback that issues user tokens.
package slack

import (
	"fmt"

	"github.com/inovacc/fixedphrase/internal/model"
)

// Response carries the fields every Web API reply has.
type Response struct {
	OK      bool   `json:"ok" yaml:"ok"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Err reports an ok=false reply as an *APIError. The client itself never
// calls it; callers decide whether a provider-level failure matters.
func (r Response) Err(op string) error {
	if r.OK {
		return nil
	}

	return &APIError{Op: op, Code: r.Error}
}

// APIError is a reply that arrived intact but had ok=false.
type APIError struct {
	Op   string
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %s", e.Op, e.Code)
}

// AuthedUser is the user-token part of an oauth.v2.access reply.
type AuthedUser struct {
	ID          string `json:"id"`
	Scope       string `json:"scope"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TeamRef is the short team reference in an oauth.v2.access reply.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccessResponse is the reply of oauth.v2.access.
type AccessResponse struct {
	Response `yaml:",inline"`

	AppID      string     `json:"app_id"`
	AuthedUser AuthedUser `json:"authed_user"`
	Team       TeamRef    `json:"team"`
	Enterprise *TeamRef   `json:"enterprise"`
}

// UsersInfoResponse is the reply of users.info.
type UsersInfoResponse struct {
	Response `yaml:",inline"`

	User model.User `json:"user"`
}

// TeamInfoResponse is the reply of team.info.
type TeamInfoResponse struct {
	Response `yaml:",inline"`

	Team model.Team `json:"team"`
}

// ChannelsListResponse is the reply of channels.list.
type ChannelsListResponse struct {
	Response `yaml:",inline"`

	Channels []model.Channel `json:"channels"`
}

// EmojiListResponse is the reply of emoji.list. Values are image URLs or
// "alias:<name>".
type EmojiListResponse struct {
	Response `yaml:",inline"`

	Emoji map[string]string `json:"emoji"`
}

// PostMessageResponse is the reply of chat.postMessage.
type PostMessageResponse struct {
	Response `yaml:",inline"`

	Channel string        `json:"channel" yaml:"channel"`
	TS      string        `json:"ts" yaml:"ts"`
	Message model.Message `json:"message" yaml:"message"`
}

// SetProfileResponse is the reply of users.profile.set.
type SetProfileResponse struct {
	Response `yaml:",inline"`

	Username string        `json:"username" yaml:"username"`
	Profile  model.Profile `json:"profile" yaml:"profile"`
}
