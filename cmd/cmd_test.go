package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inovacc/fixedphrase/internal/kv"
	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/inovacc/fixedphrase/internal/replay"
	"github.com/inovacc/fixedphrase/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	configFile string
	dbPath     string
}

func newTestEnv(t *testing.T, slackURL string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		configFile: filepath.Join(dir, "config.yaml"),
		dbPath:     filepath.Join(dir, "fixedphrase.db"),
	}

	cfg := "store:\n  backend: bolt\n  path: " + env.dbPath + "\n"
	if slackURL != "" {
		cfg += "slack:\n  base_url: " + slackURL + "\n"
	}

	require.NoError(t, os.WriteFile(env.configFile, []byte(cfg), 0o600))

	return env
}

func (e *testEnv) seedIdentity(t *testing.T, userID, token string) {
	t.Helper()

	substrate, err := kv.NewBolt(e.dbPath)
	require.NoError(t, err)

	defer func() { require.NoError(t, substrate.Close()) }()

	st := store.New(substrate, store.Options{})
	require.NoError(t, st.Identities.Add(context.Background(), model.Identity{
		User:  model.User{ID: userID, TeamID: "T1", Name: "ana"},
		Team:  model.Team{ID: "T1", Name: "Acme"},
		Token: token,
	}))
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}

	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)

	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.configFile}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	require.NoError(t, closeRuntime())

	return out.String(), err
}

func fakeSlack(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxp-1" {
			_, _ = io.WriteString(w, `{"ok":false,"error":"invalid_auth"}`)
			return
		}

		_, _ = io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1.1"}`)
	})
	mux.HandleFunc("POST /api/users.profile.set", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true,"profile":{"status_text":"away"}}`)
	})
	mux.HandleFunc("GET /api/channels.list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true,"channels":[{"id":"C1","name":"general","num_members":3}]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestAppCommands(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "", "app", "add", "--name", "Acme", "--client-id", "c1", "--client-secret", "s1")
	require.NoError(t, err)

	_, err = env.run(t, "", "app", "add", "--name", "Acme2", "--client-id", "c1", "--client-secret", "s2")
	require.NoError(t, err)

	out, err := env.run(t, "", "-o", "json", "app", "list")
	require.NoError(t, err)
	require.NotContains(t, out, "s2")

	var apps []applicationView
	require.NoError(t, json.Unmarshal([]byte(out), &apps))
	require.Equal(t, []applicationView{{Name: "Acme2", ClientID: "c1"}}, apps)
}

func TestAppAdd_PromptsForSecret(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "typed-secret\n", "app", "add", "--client-id", "c9")
	require.NoError(t, err)

	substrate, err := kv.NewBolt(env.dbPath)
	require.NoError(t, err)

	defer func() { _ = substrate.Close() }()

	app, ok := store.New(substrate, store.Options{}).Applications.Get(context.Background(), "c9")
	require.True(t, ok)
	require.Equal(t, "typed-secret", app.ClientSecret)
	require.Equal(t, "c9", app.Name)
}

func TestIdentityList(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "", "identity", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No identities connected yet.")

	env.seedIdentity(t, "U1", "xoxp-secret")

	out, err = env.run(t, "", "-o", "yaml", "identity", "list")
	require.NoError(t, err)
	require.Contains(t, out, "user_id: U1")
	require.NotContains(t, out, "xoxp-secret")
}

func TestPostAndReplay(t *testing.T) {
	srv := fakeSlack(t)
	env := newTestEnv(t, srv.URL)
	env.seedIdentity(t, "U1", "xoxp-1")

	out, err := env.run(t, "", "post", "--channel", "C1", "--text", "hi")
	require.NoError(t, err)
	require.Contains(t, out, "Posted to C1")

	_, err = env.run(t, "", "status", "--text", "away", "--for", "1h")
	require.NoError(t, err)

	out, err = env.run(t, "", "-o", "json", "history", "list")
	require.NoError(t, err)

	var views []historyView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	require.Equal(t, model.TagSetStatus, views[0].Item.API())
	require.Equal(t, model.PostMessage{Channel: "C1", Text: "hi"}, views[1].Item.Call)

	out, err = env.run(t, "", "history", "replay", "--index", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Replayed chat.postMessage")

	out, err = env.run(t, "", "-o", "json", "history", "list")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Equal(t, model.TagPostMessage, views[0].Item.API())

	out, err = env.run(t, "", "channels")
	require.NoError(t, err)
	require.Contains(t, out, "#general")
}

func TestPost_Errors(t *testing.T) {
	srv := fakeSlack(t)
	env := newTestEnv(t, srv.URL)

	_, err := env.run(t, "", "post", "--channel", "C1", "--text", "hi")
	require.ErrorContains(t, err, "no identity connected")

	env.seedIdentity(t, "U1", "xoxp-1")

	_, err = env.run(t, "", "post", "--user", "U9", "--channel", "C1", "--text", "hi")
	require.ErrorIs(t, err, replay.ErrMissingCredential)

	_, err = env.run(t, "", "post", "--channel", "C1")
	require.ErrorContains(t, err, "text is required")

	_, err = env.run(t, "", "history", "replay", "--index", "3")
	require.ErrorContains(t, err, "empty")
}

func TestOutputFormatValidation(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "", "-o", "xml", "app", "list")
	require.ErrorContains(t, err, "unknown output format")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "a longer message", max: 8, want: "a lon..."},
		{in: "two\nlines", max: 20, want: "two lines"},
		{in: "héllo wörld", max: 6, want: "hél..."},
		{in: "abc", max: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, truncateString(tt.in, tt.max))
		})
	}
}

func TestPromptSecret_NonTerminal(t *testing.T) {
	var prompt bytes.Buffer

	secret, err := promptSecret(strings.NewReader("  hunter2 \n"), &prompt, "Client secret")
	require.NoError(t, err)
	require.Equal(t, "hunter2", secret)
	require.Equal(t, "Client secret: ", prompt.String())
}
