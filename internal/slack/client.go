package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/inovacc/fixedphrase/internal/model"
)

// TransportError is a call that did not complete or came back non-2xx.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slack %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("slack %s: API returned %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client executes Web API requests. It holds no credentials; every call
// takes the token it should use.
type Client struct {
	api        API
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOptions configures a Slack client.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a new Slack API client.
func NewClient(opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &Client{
		api:        API{BaseURL: opts.BaseURL},
		httpClient: httpClient,
		logger:     logger,
	}
}

// API returns the request shaper the client uses.
func (c *Client) API() API {
	return c.api
}

// Access exchanges an authorization code for a user token.
func (c *Client) Access(ctx context.Context, app model.Application, code, redirectURI string) (*AccessResponse, error) {
	var resp AccessResponse
	if err := c.do(ctx, c.api.AccessRequest(app, code, redirectURI), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// UsersInfo gets information about a user.
func (c *Client) UsersInfo(ctx context.Context, token, userID string) (*UsersInfoResponse, error) {
	var resp UsersInfoResponse
	if err := c.do(ctx, c.api.UsersInfoRequest(token, userID), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// TeamInfo gets information about the token's team.
func (c *Client) TeamInfo(ctx context.Context, token string) (*TeamInfoResponse, error) {
	var resp TeamInfoResponse
	if err := c.do(ctx, c.api.TeamInfoRequest(token), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ChannelsList lists the team's channels.
func (c *Client) ChannelsList(ctx context.Context, token string) (*ChannelsListResponse, error) {
	var resp ChannelsListResponse
	if err := c.do(ctx, c.api.ChannelsListRequest(token), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// EmojiList lists the team's custom emoji.
func (c *Client) EmojiList(ctx context.Context, token string, limit int) (*EmojiListResponse, error) {
	var resp EmojiListResponse
	if err := c.do(ctx, c.api.EmojiListRequest(token, limit), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// PostMessage posts msg as the token's user.
func (c *Client) PostMessage(ctx context.Context, token string, msg model.PostMessage) (*PostMessageResponse, error) {
	req, err := c.api.PostMessageRequest(token, msg)
	if err != nil {
		return nil, err
	}

	var resp PostMessageResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// SetStatus sets the token user's status through users.profile.set.
func (c *Client) SetStatus(ctx context.Context, token string, status model.SetStatus) (*SetProfileResponse, error) {
	req, err := c.api.SetProfileRequest(token, status)
	if err != nil {
		return nil, err
	}

	var resp SetProfileResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// do executes req and decodes a 2xx body into result. Query strings carry
// tokens, so only the operation name is logged.
func (c *Client) do(ctx context.Context, r Request, result any) error {
	req, err := r.HTTPRequest(ctx)
	if err != nil {
		return &TransportError{Op: r.Op, Err: err}
	}

	c.logger.Debug("slack API request", "op", r.Op, "method", r.Method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: r.Op, Err: redactURLError(err)}
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{Op: r.Op, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &TransportError{Op: r.Op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Debug("slack API response", "op", r.Op, "status", resp.StatusCode)

	return nil
}

// redactURLError strips the token query value from the URL net/http puts
// into transport errors.
func redactURLError(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}

	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return err
	}

	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
	}

	if q.Has("client_secret") {
		q.Set("client_secret", "REDACTED")
	}

	u.RawQuery = q.Encode()

	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}
