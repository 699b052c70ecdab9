package core

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/inovacc/fixedphrase/internal/kv"
	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/replay"
	"github.com/inovacc/fixedphrase/internal/slack"
	"github.com/inovacc/fixedphrase/internal/store"
	"github.com/stretchr/testify/require"
)

// fakeSlack answers the Web API endpoints the service uses and records
// which ones were hit.
type fakeSlack struct {
	mu       sync.Mutex
	hits     []string
	postOK   bool
	tokens   map[string]string
	srv      *httptest.Server
	accessed string
}

func newFakeSlack(t *testing.T) *fakeSlack {
	t.Helper()

	f := &fakeSlack{postOK: true, tokens: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/oauth.v2.access", func(w http.ResponseWriter, r *http.Request) {
		f.hit("oauth.v2.access")
		f.mu.Lock()
		f.accessed = r.URL.Query().Get("code")
		f.mu.Unlock()

		writeJSON(w, map[string]any{
			"ok":          true,
			"authed_user": map[string]any{"id": "U1", "access_token": "xoxp-new", "token_type": "user"},
			"team":        map[string]any{"id": "T1", "name": "Acme"},
		})
	})
	mux.HandleFunc("GET /api/users.info", func(w http.ResponseWriter, r *http.Request) {
		f.hit("users.info")
		writeJSON(w, map[string]any{
			"ok":   true,
			"user": map[string]any{"id": r.URL.Query().Get("user"), "team_id": "T1", "name": "ana", "profile": map[string]any{"real_name": "Ana"}},
		})
	})
	mux.HandleFunc("GET /api/team.info", func(w http.ResponseWriter, _ *http.Request) {
		f.hit("team.info")
		writeJSON(w, map[string]any{"ok": true, "team": map[string]any{"id": "T1", "name": "Acme", "domain": "acme"}})
	})
	mux.HandleFunc("GET /api/channels.list", func(w http.ResponseWriter, _ *http.Request) {
		f.hit("channels.list")
		writeJSON(w, map[string]any{"ok": true, "channels": []map[string]any{{"id": "C1", "name": "general"}}})
	})
	mux.HandleFunc("GET /api/emoji.list", func(w http.ResponseWriter, _ *http.Request) {
		f.hit("emoji.list")
		writeJSON(w, map[string]any{"ok": true, "emoji": map[string]string{"shipit": "alias:squirrel"}})
	})
	mux.HandleFunc("POST /api/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		f.hit("chat.postMessage")
		f.mu.Lock()
		f.tokens["chat.postMessage"] = r.Header.Get("Authorization")
		ok := f.postOK
		f.mu.Unlock()

		if !ok {
			writeJSON(w, map[string]any{"ok": false, "error": "channel_not_found"})
			return
		}

		writeJSON(w, map[string]any{"ok": true, "channel": "C1", "ts": "1.2"})
	})
	mux.HandleFunc("POST /api/users.profile.set", func(w http.ResponseWriter, _ *http.Request) {
		f.hit("users.profile.set")
		writeJSON(w, map[string]any{"ok": true, "profile": map[string]any{"status_text": "away"}})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeSlack) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hits = append(f.hits, op)
}

func (f *fakeSlack) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, h := range f.hits {
		if h == op {
			n++
		}
	}

	return n
}

func (f *fakeSlack) auth(op string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.tokens[op]
}

func (f *fakeSlack) code() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.accessed
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	svc   *Service
	store *store.Store
	slack *fakeSlack
}

func newFixture(t *testing.T, recordReplays bool) *fixture {
	t.Helper()

	fake := newFakeSlack(t)
	st := store.New(kv.NewMemory(), store.Options{})

	svc, err := NewService(Options{
		Store:         st,
		Client:        slack.NewClient(slack.ClientOptions{BaseURL: fake.srv.URL}),
		RecordReplays: recordReplays,
		OpenBrowser: func(string) error {
			return nil
		},
	})
	require.NoError(t, err)

	return &fixture{svc: svc, store: st, slack: fake}
}

func (f *fixture) addIdentity(t *testing.T, userID, token string) {
	t.Helper()

	require.NoError(t, f.store.Identities.Add(context.Background(), model.Identity{
		User:  model.User{ID: userID, TeamID: "T1"},
		Team:  model.Team{ID: "T1"},
		Token: token,
	}))
}

func TestNewService_RequiresStore(t *testing.T) {
	_, err := NewService(Options{})
	require.Error(t, err)
}

func TestRegisterApplication(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.svc.RegisterApplication(ctx, model.Application{Name: "Acme", ClientID: "c1", ClientSecret: "s1"}))
	require.NoError(t, f.svc.RegisterApplication(ctx, model.Application{Name: "Acme2", ClientID: "c1", ClientSecret: "s2"}))

	require.Equal(t, []model.Application{{Name: "Acme2", ClientID: "c1", ClientSecret: "s2"}}, f.svc.Applications(ctx))

	require.ErrorIs(t, f.svc.RegisterApplication(ctx, model.Application{ClientID: "c2"}), ErrInvalidApplication)
	require.ErrorIs(t, f.svc.RegisterApplication(ctx, model.Application{ClientSecret: "s"}), ErrInvalidApplication)

	require.NoError(t, f.svc.RegisterApplication(ctx, model.Application{ClientID: "c3", ClientSecret: "s3"}))
	require.Equal(t, "c3", f.svc.Applications(ctx)[0].Name)
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	return port
}

// approve plays the browser: it follows the authorize URL straight to the
// callback with a code.
func approve(authURL string) error {
	u, err := url.Parse(authURL)
	if err != nil {
		return err
	}

	go func() {
		cb := u.Query().Get("redirect_uri") + "?code=granted&state=" + url.QueryEscape(u.Query().Get("state"))

		resp, err := http.Get(cb) //nolint:gosec,noctx // test callback
		if err == nil {
			_ = resp.Body.Close()
		}
	}()

	return nil
}

func TestConnect(t *testing.T) {
	fake := newFakeSlack(t)
	st := store.New(kv.NewMemory(), store.Options{})
	port := freePort(t)

	svc, err := NewService(Options{
		Store:  st,
		Client: slack.NewClient(slack.ClientOptions{BaseURL: fake.srv.URL}),
		OAuth: OAuthOptions{
			Port:        port,
			RedirectURI: "http://127.0.0.1:" + strconv.Itoa(port) + slack.OAuthCallbackPath,
			Timeout:     5 * time.Second,
		},
		OpenBrowser: approve,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.RegisterApplication(ctx, model.Application{Name: "Acme", ClientID: "c1", ClientSecret: "s1"}))

	identity, err := svc.Connect(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "granted", fake.code())
	require.Equal(t, "U1", identity.User.ID)
	require.Equal(t, "Ana", identity.User.Profile.RealName)
	require.Equal(t, "T1", identity.Team.ID)
	require.Equal(t, "acme", identity.Team.Domain)
	require.Equal(t, "xoxp-new", identity.Token)

	stored := svc.Identities(ctx)
	require.Len(t, stored, 1)
	require.Equal(t, identity, stored[0])
}

func TestConnect_ApplicationLookup(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Connect(ctx, "")
	require.ErrorIs(t, err, ErrNoApplication)

	require.NoError(t, f.svc.RegisterApplication(ctx, model.Application{ClientID: "c1", ClientSecret: "s1"}))

	_, err = f.svc.Connect(ctx, "missing")

	var notFound *ApplicationNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "missing", notFound.ClientID)
	require.Zero(t, f.slack.count("oauth.v2.access"))
}

func TestPostMessage_RecordsOnSuccess(t *testing.T) {
	f := newFixture(t, true)
	f.addIdentity(t, "U1", "T1-token")

	ctx := context.Background()

	resp, err := f.svc.PostMessage(ctx, "U1", model.PostMessage{Channel: "C1", Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, "1.2", resp.TS)
	require.Equal(t, "Bearer T1-token", f.slack.auth("chat.postMessage"))

	_, err = f.svc.SetStatus(ctx, "U1", model.SetStatus{StatusText: "away"})
	require.NoError(t, err)

	history := f.svc.History(ctx, "U1")
	require.Len(t, history, 2)
	require.Equal(t, model.TagSetStatus, history[0].API())
	require.Equal(t, model.TagPostMessage, history[1].API())
	require.Equal(t, "U1", history[1].User)
}

func TestPostMessage_Failures(t *testing.T) {
	f := newFixture(t, true)
	f.addIdentity(t, "U1", "tok")

	ctx := context.Background()

	_, err := f.svc.PostMessage(ctx, "U2", model.PostMessage{Channel: "C1", Text: "hi"})
	require.ErrorIs(t, err, replay.ErrMissingCredential)
	require.Zero(t, f.slack.count("chat.postMessage"))

	_, err = f.svc.PostMessage(ctx, "U1", model.PostMessage{Text: "hi"})
	require.Error(t, err)
	require.Zero(t, f.slack.count("chat.postMessage"))

	f.slack.mu.Lock()
	f.slack.postOK = false
	f.slack.mu.Unlock()

	_, err = f.svc.PostMessage(ctx, "U1", model.PostMessage{Channel: "C404", Text: "hi"})

	var apiErr *slack.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "channel_not_found", apiErr.Code)
	require.Empty(t, f.svc.History(ctx, "U1"))
}

func TestReplay(t *testing.T) {
	f := newFixture(t, true)
	f.addIdentity(t, "U1", "tok")

	ctx := context.Background()

	_, err := f.svc.PostMessage(ctx, "U1", model.PostMessage{Channel: "C1", Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, "U1", model.SetStatus{StatusText: "away"})
	require.NoError(t, err)

	result, err := f.svc.Replay(ctx, "U1", 1)
	require.NoError(t, err)
	require.Equal(t, "chat.postMessage", result.Op)
	require.Equal(t, 2, f.slack.count("chat.postMessage"))

	history := f.svc.History(ctx, "U1")
	require.Len(t, history, 2)
	require.Equal(t, model.TagPostMessage, history[0].API())
}

func TestReplay_WithoutRecording(t *testing.T) {
	f := newFixture(t, false)
	f.addIdentity(t, "U1", "tok")

	ctx := context.Background()

	_, err := f.svc.PostMessage(ctx, "U1", model.PostMessage{Channel: "C1", Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, "U1", model.SetStatus{StatusText: "away"})
	require.NoError(t, err)

	_, err = f.svc.Replay(ctx, "U1", 1)
	require.NoError(t, err)

	require.Equal(t, model.TagSetStatus, f.svc.History(ctx, "U1")[0].API())
}

func TestReplay_Errors(t *testing.T) {
	f := newFixture(t, true)
	f.addIdentity(t, "U1", "tok")

	ctx := context.Background()

	_, err := f.svc.Replay(ctx, "U1", 0)

	var indexErr *HistoryIndexError
	require.ErrorAs(t, err, &indexErr)
	require.Zero(t, indexErr.Len)

	unknown := model.HistoryItem{User: "U1", Call: model.UnknownCall{API: "reactions-add", Data: json.RawMessage(`{}`)}}
	require.NoError(t, f.store.History.AddFor(ctx, "U1", unknown))

	_, err = f.svc.Replay(ctx, "U1", 5)
	require.ErrorAs(t, err, &indexErr)
	require.Equal(t, 1, indexErr.Len)

	_, err = f.svc.Replay(ctx, "U1", 0)
	require.ErrorIs(t, err, replay.ErrUnsupportedOperation)
	require.Len(t, f.svc.History(ctx, "U1"), 1)

	orphan := model.HistoryItem{User: "U2", Call: model.PostMessage{Channel: "C1", Text: "x"}}
	require.NoError(t, f.store.History.AddFor(ctx, "U2", orphan))

	_, err = f.svc.Replay(ctx, "U2", 0)
	require.ErrorIs(t, err, replay.ErrMissingCredential)
	require.Zero(t, f.slack.count("chat.postMessage"))
}

func TestLookups(t *testing.T) {
	f := newFixture(t, true)
	f.addIdentity(t, "U1", "tok")

	ctx := context.Background()

	channels, err := f.svc.Channels(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "general", channels[0].Name)

	emoji, err := f.svc.Emoji(ctx, "U1", 10)
	require.NoError(t, err)
	require.Equal(t, "alias:squirrel", emoji["shipit"])

	team, err := f.svc.Team(ctx, "U1")
	require.NoError(t, err)
	require.Equal(t, "Acme", team.Name)

	profile, err := f.svc.Profile(ctx, "U1")
	require.NoError(t, err)
	require.Equal(t, "U1", profile.ID)

	_, err = f.svc.Channels(ctx, "nobody")
	require.ErrorIs(t, err, replay.ErrMissingCredential)
}

