package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inovacc/fixedphrase/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientOptions{BaseURL: srv.URL})
}

func TestClient_UsersInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users.info", r.URL.Path)
		require.Equal(t, "xoxp-1", r.URL.Query().Get("token"))
		require.Equal(t, "U1", r.URL.Query().Get("user"))

		_, _ = io.WriteString(w, `{"ok":true,"user":{"id":"U1","team_id":"T1","name":"ana","profile":{"real_name":"Ana"}}}`)
	})

	resp, err := client.UsersInfo(context.Background(), "xoxp-1", "U1")
	require.NoError(t, err)
	require.NoError(t, resp.Err("users.info"))
	require.Equal(t, "U1", resp.User.ID)
	require.Equal(t, "T1", resp.User.TeamID)
	require.Equal(t, "Ana", resp.User.Profile.RealName)
}

func TestClient_PostMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat.postMessage", r.URL.Path)
		require.Equal(t, "Bearer xoxp-1", r.Header.Get("Authorization"))

		var got model.PostMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, model.PostMessage{Channel: "C1", Text: "hi"}, got)

		_, _ = io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1700000000.000100","message":{"text":"hi"}}`)
	})

	resp, err := client.PostMessage(context.Background(), "xoxp-1", model.PostMessage{Channel: "C1", Text: "hi"})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "1700000000.000100", resp.TS)
}

func TestClient_SetStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users.profile.set", r.URL.Path)

		var got struct {
			Profile model.SetStatus `json:"profile"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, "away", got.Profile.StatusText)

		_, _ = io.WriteString(w, `{"ok":true,"profile":{"status_text":"away","status_emoji":":x:"}}`)
	})

	resp, err := client.SetStatus(context.Background(), "xoxp-1", model.SetStatus{StatusText: "away", StatusEmoji: ":x:"})
	require.NoError(t, err)
	require.Equal(t, "away", resp.Profile.StatusText)
}

func TestClient_OKFalseIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	})

	resp, err := client.PostMessage(context.Background(), "xoxp-1", model.PostMessage{Channel: "C404", Text: "x"})
	require.NoError(t, err)
	require.False(t, resp.OK)

	var apiErr *APIError
	require.ErrorAs(t, resp.Err("chat.postMessage"), &apiErr)
	require.Equal(t, "channel_not_found", apiErr.Code)
	require.Equal(t, "slack chat.postMessage: channel_not_found", apiErr.Error())
}

func TestClient_Non2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.TeamInfo(context.Background(), "xoxp-1")
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "team.info", terr.Op)
	require.Equal(t, http.StatusTooManyRequests, terr.StatusCode)
	require.Contains(t, terr.Body, "rate limited")
}

func TestClient_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := client.EmojiList(context.Background(), "xoxp-1", 0)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Error(t, terr.Unwrap())
}

func TestClient_TransportErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(ClientOptions{BaseURL: base})

	_, err := client.UsersInfo(context.Background(), "xoxp-secret", "U1")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "xoxp-secret")
	require.Contains(t, err.Error(), "REDACTED")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Zero(t, terr.StatusCode)
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ChannelsList(ctx, "xoxp-1")
	require.True(t, errors.Is(err, context.Canceled))
}
