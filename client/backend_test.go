package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsdigest/digestsync/client/internal/shardqueue"
	"github.com/newsdigest/digestsync/client/internal/types"
)

// fakeBackend is an in-memory stand-in for the digest REST API. It records
// every request so tests can assert on call counts and bodies.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	date     string
	users    map[string]types.UserResponse
	history  map[string]types.HistoryEntry
	articles []types.ArticleEntry
	summary  string
	calls    map[string]int
	bodies   map[string][]string

	// failures by "METHOD /path", answered with the given status
	fail map[string]int
	// swallowUserCreate accepts POST /user without storing the profile
	swallowUserCreate bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		t:       t,
		users:   map[string]types.UserResponse{},
		history: map[string]types.HistoryEntry{},
		calls:   map[string]int{},
		bodies:  map[string][]string{},
		fail:    map[string]int{},
		summary: `"a concise overview"`,
	}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) client(opts ...Option) *Client {
	fb.t.Helper()
	opts = append([]Option{WithExecutorConfig(shardqueue.Config{Shards: 2, QueueSize: 16})}, opts...)
	c, err := New(fb.srv.URL, opts...)
	require.NoError(fb.t, err)
	fb.t.Cleanup(func() { _ = c.Close() })
	return c
}

func (fb *fakeBackend) count(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

func (fb *fakeBackend) sent(route string) []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.bodies[route]...)
}

func (fb *fakeBackend) setFailure(route string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fail[route] = status
}

func historyKey(user, topic, level string) string { return user + "|" + topic + "|" + level }

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	route := r.Method + " " + r.URL.Path

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.calls[route]++
	if len(body) > 0 {
		fb.bodies[route] = append(fb.bodies[route], string(body))
	}
	if status, ok := fb.fail[route]; ok {
		w.WriteHeader(status)
		return
	}

	q := r.URL.Query()
	switch route {
	case "GET /date":
		writeJSON(w, types.DatePayload{CurrentDate: fb.date})
	case "PUT /date":
		var dp types.DatePayload
		_ = json.Unmarshal(body, &dp)
		fb.date = dp.CurrentDate
		writeJSON(w, map[string]string{"message": "date updated"})

	case "GET /user":
		u, ok := fb.users[q.Get("id")]
		if !ok {
			_, _ = w.Write([]byte("null"))
			return
		}
		writeJSON(w, u)
	case "POST /user", "PUT /user":
		var up types.UserPayload
		_ = json.Unmarshal(body, &up)
		if r.Method == http.MethodPost && fb.swallowUserCreate {
			writeJSON(w, map[string]string{"message": "user created"})
			return
		}
		prev := fb.users[up.ID]
		fb.users[up.ID] = types.UserResponse{
			ID: up.ID, Name: up.Name, BaseUnderstanding: up.BaseUnderstanding,
			JoinDate: up.JoinDate, Interests: prev.Interests,
		}
		writeJSON(w, map[string]string{"message": "ok"})

	case "GET /articles/history":
		e, ok := fb.history[historyKey(q.Get("user_id"), q.Get("topic"), q.Get("level"))]
		if !ok {
			_, _ = w.Write([]byte("[]"))
			return
		}
		writeJSON(w, []types.HistoryEntry{e})
	case "POST /articles/history", "PUT /articles/history":
		var hp types.HistoryPayload
		_ = json.Unmarshal(body, &hp)
		e := types.HistoryEntry(hp)
		fb.history[historyKey(hp.UserID, hp.Topic, hp.Level)] = e
		writeJSON(w, e)

	case "GET /articles/topic":
		writeJSON(w, types.ArticlesResponse{Articles: fb.articles})
	case "POST /summarize_all_articles":
		_, _ = w.Write([]byte(fb.summary))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (fb *fakeBackend) setDate(iso string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.date = iso
}

func (fb *fakeBackend) setArticles(entries ...types.ArticleEntry) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.articles = entries
}

func (fb *fakeBackend) putUser(u types.UserResponse) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.users[u.ID] = u
}

func (fb *fakeBackend) user(id string) types.UserResponse {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.users[id]
}
