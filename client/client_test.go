package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{Addr: server.URL}
}

func TestClient_Ping(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		_, _ = w.Write([]byte("pong"))
	})

	got, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
}

func TestClient_LoginStoresToken(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			User map[string]string `json:"user"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jake@jake.jake", body.User["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"username": "jake",
				"email":    "jake@jake.jake",
				"token":    "a.jwt.token",
			},
		})
	})

	user, err := c.Login(context.Background(), "jake@jake.jake", "jakejake")
	require.NoError(t, err)
	assert.Equal(t, "jake", user.Username)
	assert.Equal(t, "a.jwt.token", c.Token)
}

func TestClient_SendsTokenHeader(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token a.jwt.token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"username": "jake"}})
	})
	c.Token = "a.jwt.token"

	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestClient_ListArticlesQuery(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "dragons", q.Get("tag"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "20", q.Get("offset"))

		_ = json.NewEncoder(w).Encode(ArticlesPage{
			Articles:      []Article{{Slug: "a"}},
			ArticlesCount: 42,
		})
	})

	page, err := c.ListArticles(context.Background(), ArticlesQuery{Tag: "dragons", Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 1)
	assert.Equal(t, 42, page.ArticlesCount)
}

func TestClient_APIError(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string][]string{"email": {"has already been taken"}},
		})
	})

	_, err := c.Register(context.Background(), "jake", "jake@jake.jake", "jakejake")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Errors, "email")
}

func TestFeedState_SelectionResets(t *testing.T) {
	s := NewFeedState()

	token := s.FetchStarted()
	s.FetchCompleted(token, &ArticlesPage{
		Articles:      []Article{{Slug: "a"}},
		ArticlesCount: 1,
	}, 0)

	snap := s.Snapshot()
	assert.Len(t, snap.Articles, 1)

	s.SelectTag("dragons")

	snap = s.Snapshot()
	assert.Empty(t, snap.Articles)
	assert.Equal(t, FeedByTag, snap.Selection.Kind)
	assert.Equal(t, "dragons", snap.Selection.Tag)
	assert.False(t, snap.Loading)
}

func TestFeedState_StaleFetchDiscarded(t *testing.T) {
	s := NewFeedState()

	stale := s.FetchStarted()
	s.SelectTag("dragons")

	s.FetchCompleted(stale, &ArticlesPage{
		Articles:      []Article{{Slug: "stale"}},
		ArticlesCount: 1,
	}, 0)

	snap := s.Snapshot()
	assert.Empty(t, snap.Articles, "result for the previous selection must be dropped")
}

func TestFeedState_FetchFailed(t *testing.T) {
	s := NewFeedState()

	token := s.FetchStarted()
	assert.True(t, s.Snapshot().Loading)

	boom := errors.New("boom")
	s.FetchFailed(token, boom)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, boom, snap.Err)
}

func TestFeedState_Refresh(t *testing.T) {
	c := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "dragons", r.URL.Query().Get("tag"))
		_ = json.NewEncoder(w).Encode(ArticlesPage{
			Articles:      []Article{{Slug: "tagged"}},
			ArticlesCount: 1,
		})
	})

	s := NewFeedState()
	s.SelectTag("dragons")

	require.NoError(t, s.Refresh(context.Background(), c, 20, 0))

	snap := s.Snapshot()
	assert.Len(t, snap.Articles, 1)
	assert.Equal(t, "tagged", snap.Articles[0].Slug)
	assert.Equal(t, 1, snap.Total)
	assert.False(t, snap.Loading)
}
