package slack

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inovacc/fixedphrase/internal/model"
)

const (
	// DefaultOAuthPort is the default port for the local callback server.
	DefaultOAuthPort = 8338
	// OAuthCallbackPath is the callback path for OAuth redirect.
	OAuthCallbackPath = "/slack/callback"

	// DefaultUserScope covers every call fixedphrase makes with a user token.
	DefaultUserScope = "chat:write,users.profile:write,users:read,team:read,channels:read,emoji:read"

	// DefaultOAuthTimeout bounds how long the flow waits for the browser.
	DefaultOAuthTimeout = 5 * time.Minute
)

// ErrStateMismatch is returned when the callback state is not the one issued.
var ErrStateMismatch = errors.New("state mismatch: possible CSRF attack")

// OAuthConfig holds the OAuth configuration.
type OAuthConfig struct {
	Application model.Application
	UserScope   string
	RedirectURI string
	Port        int
	Timeout     time.Duration
}

// OAuthHandler runs the browser side of one authorization.
type OAuthHandler struct {
	api        API
	config     OAuthConfig
	state      string
	resultChan chan oauthCallbackResult
	server     *http.Server
}

type oauthCallbackResult struct {
	code  string
	state string
	err   error
}

// NewOAuthHandler validates config, fills defaults and issues a state value.
func NewOAuthHandler(api API, config OAuthConfig) (*OAuthHandler, error) {
	if config.Application.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	if config.Application.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}

	if config.Port == 0 {
		config.Port = DefaultOAuthPort
	}

	if config.UserScope == "" {
		config.UserScope = DefaultUserScope
	}

	if config.RedirectURI == "" {
		config.RedirectURI = fmt.Sprintf("http://localhost:%d%s", config.Port, OAuthCallbackPath)
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultOAuthTimeout
	}

	return &OAuthHandler{
		api:        api,
		config:     config,
		state:      uuid.NewString(),
		resultChan: make(chan oauthCallbackResult, 1),
	}, nil
}

// RedirectURI returns the callback address registered with Slack.
func (h *OAuthHandler) RedirectURI() string {
	return h.config.RedirectURI
}

// AuthorizationURL returns the URL to send the user to.
func (h *OAuthHandler) AuthorizationURL() string {
	return h.api.AuthorizeURL(h.config.Application, h.config.UserScope, h.config.RedirectURI, h.state)
}

// Handler returns the callback router.
func (h *OAuthHandler) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get(OAuthCallbackPath, h.handleCallback)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "Waiting for Slack OAuth callback...")
	})

	return r
}

// StartCallbackServer starts the local HTTP server to receive the OAuth callback.
func (h *OAuthHandler) StartCallbackServer(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", h.config.Port)

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	h.server = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.deliver(oauthCallbackResult{err: err})
		}
	}()

	return nil
}

// WaitForCallback waits for the OAuth callback and returns the authorization code.
func (h *OAuthHandler) WaitForCallback(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	select {
	case result := <-h.resultChan:
		if result.err != nil {
			return "", result.err
		}

		if result.state != h.state {
			return "", ErrStateMismatch
		}

		return result.code, nil
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for OAuth callback: %w", ctx.Err())
	}
}

// Shutdown gracefully shuts down the callback server.
func (h *OAuthHandler) Shutdown(ctx context.Context) error {
	if h.server != nil {
		return h.server.Shutdown(ctx)
	}

	return nil
}

// deliver hands a result to WaitForCallback; only the first one counts.
func (h *OAuthHandler) deliver(result oauthCallbackResult) {
	select {
	case h.resultChan <- result:
	default:
	}
}

func (h *OAuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		h.deliver(oauthCallbackResult{err: fmt.Errorf("oauth error: %s", errMsg)})
		renderPage(w, http.StatusBadRequest, "Authorization Failed", errMsg)

		return
	}

	code := query.Get("code")
	if code == "" {
		h.deliver(oauthCallbackResult{err: errors.New("no authorization code received")})
		renderPage(w, http.StatusBadRequest, "Authorization Failed", "No authorization code received")

		return
	}

	h.deliver(oauthCallbackResult{code: code, state: query.Get("state")})
	renderPage(w, http.StatusOK, "Authorization Successful", "You can close this window and return to the terminal.")
}

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%[1]s</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh">
<h1>%[1]s</h1>
<p>%[2]s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// RunOAuthFlow runs the complete OAuth flow and returns the token exchange reply.
func RunOAuthFlow(ctx context.Context, client *Client, config OAuthConfig, openBrowser func(string) error) (*AccessResponse, error) {
	handler, err := NewOAuthHandler(client.API(), config)
	if err != nil {
		return nil, err
	}

	if err := handler.StartCallbackServer(ctx); err != nil {
		return nil, err
	}

	defer func() { //nolint:contextcheck // Use Background for shutdown since parent ctx may be cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = handler.Shutdown(shutdownCtx)
	}()

	authURL := handler.AuthorizationURL()
	if err := openBrowser(authURL); err != nil {
		return nil, fmt.Errorf("failed to open browser: %w\n\nPlease open this URL manually:\n%s", err, authURL)
	}

	code, err := handler.WaitForCallback(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.Access(ctx, config.Application, code, handler.RedirectURI())
	if err != nil {
		return nil, err
	}

	if err := result.Err("oauth.v2.access"); err != nil {
		return nil, err
	}

	return result, nil
}
