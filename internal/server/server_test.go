package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/state"
	"github.com/leapstack-labs/macroscope/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedSource = `
macro_rules! inner { () => { 1 } }
macro_rules! outer { () => { inner!(); } }
outer!();
`

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)

	cfg := Config{
		Resolver:      resolve.New(resolve.WithLogger(logger)),
		SessionSecret: "test-secret-test-secret-test-secret",
		Logger:        logger,
	}
	if withStore {
		store := state.NewSQLiteStore(logger)
		require.NoError(t, store.Open(":memory:"))
		require.NoError(t, store.Migrate())
		t.Cleanup(func() { _ = store.Close() })
		cfg.Store = store
	}
	return NewServer(cfg)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func boolPtr(b bool) *bool { return &b }

// =============================================================================
// JSON API
// =============================================================================

func TestExpand(t *testing.T) {
	tests := []struct {
		name         string
		recursive    *bool
		wantChildren int
	}{
		{"default is flat", nil, 0},
		{"flat", boolPtr(false), 0},
		{"recursive", boolPtr(true), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupServer(t, false).Handler()

			rec := doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: nestedSource, Recursive: tt.recursive})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Empty(t, rec.Header().Get(runHeader))

			res := decode[resolve.Result](t, rec)
			require.Len(t, res.Calls, 1)
			assert.Equal(t, "outer!()", res.Calls[0].CallSiteText)
			assert.Equal(t, "inner ! () ;", res.Calls[0].ExpansionText)
			assert.Len(t, res.Calls[0].Children, tt.wantChildren)
			assert.Equal(t, []string{"inner {() => {1}}", "outer {() => {inner ! () ;}}"}, res.MacroRules)
			assert.True(t, strings.HasPrefix(res.SyntaxNodes, "SOURCE_FILE@"))
		})
	}
}

func TestExpand_BranchingRecursionIsBounded(t *testing.T) {
	h := setupServer(t, false).Handler()

	const src = "macro_rules! f { () => { f!(); f!(); } }\nf!();"
	rec := doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: src, Recursive: boolPtr(true)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[resolve.Result](t, rec)
	assert.Equal(t, resolve.DefaultMaxExpansions, res.CallCount())
}

func TestExpand_ContractFields(t *testing.T) {
	h := setupServer(t, false).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: "fn main() {}"})
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decode[map[string]json.RawMessage](t, rec)
	assert.Len(t, raw, 3)
	assert.JSONEq(t, `[]`, string(raw["calls"]))
	assert.JSONEq(t, `[]`, string(raw["macro_rules"]))
}

func TestExpand_BadRequest(t *testing.T) {
	h := setupServer(t, false).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/expand", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "invalid request body")
}

func TestRuns_Lifecycle(t *testing.T) {
	h := setupServer(t, true).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: nestedSource, Recursive: boolPtr(true)})
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(runHeader)
	require.NotEmpty(t, id)

	rec = doJSON(t, h, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]RunResponse](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.True(t, runs[0].Recursive)
	assert.Equal(t, 2, runs[0].CallCount)
	assert.Equal(t, 2, runs[0].DefinitionCount)
	assert.Equal(t, "macro_rules! inner { () => { 1 } }", runs[0].Preview)
	assert.Nil(t, runs[0].Result)

	rec = doJSON(t, h, http.MethodGet, "/api/runs/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[RunResponse](t, rec)
	assert.Equal(t, nestedSource, run.Source)
	require.NotNil(t, run.Result)
	require.Len(t, run.Result.Calls, 1)
	assert.Len(t, run.Result.Calls[0].Children, 1)

	rec = doJSON(t, h, http.MethodDelete, "/api/runs/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/runs/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/runs/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuns_Limit(t *testing.T) {
	h := setupServer(t, true).Handler()
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: "fn main() {}"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/runs?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]RunResponse](t, rec), 2)

	rec = doJSON(t, h, http.MethodGet, "/api/runs?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuns_HistoryDisabled(t *testing.T) {
	h := setupServer(t, false).Handler()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/runs"},
		{http.MethodGet, "/api/runs/abc"},
		{http.MethodDelete, "/api/runs/abc"},
	} {
		rec := doJSON(t, h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, "history is disabled", decode[errorResponse](t, rec).Error)
	}
}

// =============================================================================
// Session preferences
// =============================================================================

func TestPreferences(t *testing.T) {
	h := setupServer(t, false).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/preferences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[Preferences](t, rec).Recursive)

	rec = doJSON(t, h, http.MethodPost, "/api/preferences", Preferences{Recursive: true})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionName, cookies[0].Name)

	rec = doJSON(t, h, http.MethodGet, "/api/preferences", nil, cookies...)
	assert.True(t, decode[Preferences](t, rec).Recursive)

	// The session preference applies when the request does not say.
	rec = doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: nestedSource}, cookies...)
	res := decode[resolve.Result](t, rec)
	require.Len(t, res.Calls, 1)
	assert.Len(t, res.Calls[0].Children, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/expand", ExpandRequest{Text: nestedSource, Recursive: boolPtr(false)}, cookies...)
	res = decode[resolve.Result](t, rec)
	assert.Empty(t, res.Calls[0].Children)
}

// =============================================================================
// Playground, SSE and websocket
// =============================================================================

func TestIndex(t *testing.T) {
	h := setupServer(t, false).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{"<!doctype html>", "<title>macroscope playground</title>", "/api/stream", "/api/updates"} {
		assert.Contains(t, body, want)
	}
}

func TestStream(t *testing.T) {
	s := setupServer(t, true)
	h := s.Handler()

	body, err := json.Marshal(StreamSignals{Text: nestedSource, Recursive: true})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/stream", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
	out := rec.Body.String()
	assert.Contains(t, out, `"call_site_text":"outer!()"`)
	assert.Contains(t, out, `"call_site_text":"inner ! ()"`)

	runs, err := s.store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestUpdates_SendsLatest(t *testing.T) {
	s := setupServer(t, false)
	h := s.Handler()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(path, []byte(nestedSource), 0o600))
	s.refresh(path)

	latest, ok := s.Notifier().Latest()
	require.True(t, ok)
	require.NotNil(t, latest.Result)
	assert.Equal(t, 1, len(latest.Result.Calls))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/updates", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := rec.Body.String()
	assert.Contains(t, out, `"call_site_text":"outer!()"`)
	assert.Contains(t, out, `"version":1`)
}

func TestRefresh_MissingFile(t *testing.T) {
	s := setupServer(t, false)
	s.refresh(filepath.Join(t.TempDir(), "missing.rs"))

	latest, ok := s.Notifier().Latest()
	require.True(t, ok)
	assert.Nil(t, latest.Result)
	assert.NotEmpty(t, latest.Err)
}

func TestWebSocket(t *testing.T) {
	ts := httptest.NewServer(setupServer(t, false).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	payload, err := json.Marshal(WSExpandPayload{Text: nestedSource, Recursive: true})
	require.NoError(t, err)

	messages := []WSMessage{
		{Type: "ping"},
		{Type: "expand", Payload: payload},
		{Type: "bogus"},
	}
	for _, m := range messages {
		require.NoError(t, conn.WriteJSON(m))
	}

	var pong WSResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong.Type)

	var result struct {
		Type    string         `json:"type"`
		Payload resolve.Result `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, "result", result.Type)
	require.Len(t, result.Payload.Calls, 1)
	assert.Len(t, result.Payload.Calls[0].Children, 1)

	var bad struct {
		Type    string         `json:"type"`
		Payload WSErrorPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, "error", bad.Type)
	assert.Equal(t, "unknown_type", bad.Payload.Code)
}
