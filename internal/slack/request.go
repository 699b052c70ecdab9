package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/inovacc/fixedphrase/internal/model"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Slack host every endpoint hangs off.
const DefaultBaseURL = "https://slack.com"

// Request is the shape of one Web API call. Building one has no side effects.
type Request struct {
	Op     string
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// HTTPRequest materialises r for execution.
func (r Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return req, nil
}

// API shapes requests against one Slack host.
type API struct {
	BaseURL string
}

func (a API) base() string {
	if a.BaseURL == "" {
		return DefaultBaseURL
	}

	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) method(name string) string {
	return a.base() + "/api/" + name
}

// OAuthConfig returns the oauth2 view of an application for this host.
func (a API) OAuthConfig(app model.Application, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  a.base() + "/oauth/v2/authorize",
			TokenURL: a.method("oauth.v2.access"),
		},
	}
}

// AuthorizeURL is where the browser is sent to grant userScope to app.
func (a API) AuthorizeURL(app model.Application, userScope, redirectURI, state string) string {
	return a.OAuthConfig(app, redirectURI).AuthCodeURL(state, oauth2.SetAuthURLParam("user_scope", userScope))
}

// AccessRequest exchanges an authorization code for a user token.
func (a API) AccessRequest(app model.Application, code, redirectURI string) Request {
	params := url.Values{}
	params.Set("client_id", app.ClientID)
	params.Set("client_secret", app.ClientSecret)
	params.Set("code", code)
	params.Set("redirect_uri", redirectURI)

	return a.query("oauth.v2.access", params)
}

// UsersInfoRequest looks up userID.
func (a API) UsersInfoRequest(token, userID string) Request {
	params := url.Values{}
	params.Set("token", token)
	params.Set("user", userID)

	return a.query("users.info", params)
}

// TeamInfoRequest looks up the token's team.
func (a API) TeamInfoRequest(token string) Request {
	params := url.Values{}
	params.Set("token", token)

	return a.query("team.info", params)
}

// ChannelsListRequest lists the team's channels.
func (a API) ChannelsListRequest(token string) Request {
	params := url.Values{}
	params.Set("token", token)

	return a.query("channels.list", params)
}

// EmojiListRequest lists custom emoji. limit <= 0 leaves the server default.
func (a API) EmojiListRequest(token string, limit int) Request {
	params := url.Values{}
	params.Set("token", token)

	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	return a.query("emoji.list", params)
}

// PostMessageRequest posts msg as the token's user.
func (a API) PostMessageRequest(token string, msg model.PostMessage) (Request, error) {
	return a.write("chat.postMessage", token, msg)
}

// SetProfileRequest sets the token user's status.
func (a API) SetProfileRequest(token string, status model.SetStatus) (Request, error) {
	return a.write("users.profile.set", token, struct {
		Profile model.SetStatus `json:"profile"`
	}{Profile: status})
}

func (a API) query(op string, params url.Values) Request {
	return Request{
		Op:     op,
		Method: http.MethodGet,
		URL:    a.method(op) + "?" + params.Encode(),
		Header: http.Header{},
	}
}

func (a API) write(op, token string, payload any) (Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("encode %s body: %w", op, err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	(&oauth2.Token{AccessToken: token}).SetAuthHeader(&http.Request{Header: header})

	return Request{
		Op:     op,
		Method: http.MethodPost,
		URL:    a.method(op),
		Header: header,
		Body:   body,
	}, nil
}
