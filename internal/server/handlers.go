package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/state"
)

//go:embed static/index.html
var staticFS embed.FS

const (
	maxBodyBytes   = 1 << 20
	defaultRunList = 50

	sessionName   = "macroscope"
	prefRecursive = "recursive"

	// runHeader carries the history ID of a recorded run.
	runHeader = "X-Macroscope-Run"
)

// ExpandRequest is the body of POST /api/expand.
type ExpandRequest struct {
	Text string `json:"text"`

	// Recursive overrides the session preference when set
	Recursive *bool `json:"recursive,omitempty"`
}

// Preferences are the per-browser settings kept in the session cookie.
type Preferences struct {
	Recursive bool `json:"recursive"`
}

// RunResponse describes a recorded run.
type RunResponse struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	SourceName      string          `json:"source_name,omitempty"`
	Recursive       bool            `json:"recursive"`
	MaxDepth        int             `json:"max_depth"`
	CallCount       int             `json:"call_count"`
	DefinitionCount int             `json:"definition_count"`
	Preview         string          `json:"preview"`
	Source          string          `json:"source,omitempty"`
	Result          *resolve.Result `json:"result,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Post("/expand", s.handleExpand)

		r.Get("/preferences", s.handleGetPreferences)
		r.Post("/preferences", s.handleSetPreferences)

		r.Get("/stream", s.handleStream)
		r.Post("/stream", s.handleStream)
		r.Get("/updates", s.handleUpdates)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
			r.Delete("/{id}", s.handleDeleteRun)
		})
	})

	r.Get("/ws", s.handleWebSocket)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	recursive := s.recursivePreference(r)
	if req.Recursive != nil {
		recursive = *req.Recursive
	}

	res, err := s.resolver.Resolve(req.Text, recursive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if id := s.record(r.Context(), req.Text, recursive, res); id != "" {
		w.Header().Set(runHeader, id)
	}
	writeJSON(w, http.StatusOK, res)
}

// record saves a run and returns its ID, or "" when history is disabled
// or saving failed.
func (s *Server) record(ctx context.Context, text string, recursive bool, res *resolve.Result) string {
	if s.store == nil {
		return ""
	}
	run, err := state.NewRun("", text, recursive, s.resolver.MaxDepth(), res)
	if err != nil {
		s.logger.Error("failed to build run", "error", err)
		return ""
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to save run", "error", err)
		return ""
	}
	return run.ID
}

func (s *Server) recursivePreference(r *http.Request) bool {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		return s.recursive
	}
	if v, ok := session.Values[prefRecursive].(bool); ok {
		return v
	}
	return s.recursive
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Preferences{Recursive: s.recursivePreference(r)})
}

func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// A cookie that fails to decode (e.g. after a secret change) is
	// replaced by the new session.
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values[prefRecursive] = prefs.Recursive
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := defaultRunList
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse(run))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	res, err := run.Result()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := runResponse(run)
	resp.Source = run.Source
	resp.Result = res
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func runResponse(run *state.Run) RunResponse {
	return RunResponse{
		ID:              run.ID,
		CreatedAt:       run.CreatedAt,
		SourceName:      run.SourceName,
		Recursive:       run.Recursive,
		MaxDepth:        run.MaxDepth,
		CallCount:       run.CallCount,
		DefinitionCount: run.DefinitionCount,
		Preview:         run.Preview(64),
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, state.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
