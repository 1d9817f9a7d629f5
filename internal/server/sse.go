package server

import (
	"net/http"

	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/starfederation/datastar-go/datastar"
)

// StreamSignals are the playground signals read by /api/stream.
type StreamSignals struct {
	Text      string `json:"text"`
	Recursive bool   `json:"recursive"`
}

// resultSignals are patched into the page after each resolution.
type resultSignals struct {
	Result  *resolve.Result `json:"result"`
	Error   string          `json:"error"`
	Path    string          `json:"path,omitempty"`
	Version uint64          `json:"version,omitempty"`
}

// handleStream resolves the editor contents and patches the result signal.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE, which consumes the request body.
	var signals StreamSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.MarshalAndPatchSignals(resultSignals{Error: "failed to read signals: " + err.Error()})
		return
	}

	sse := datastar.NewSSE(w, r)

	res, err := s.resolver.Resolve(signals.Text, signals.Recursive)
	if err != nil {
		_ = sse.MarshalAndPatchSignals(resultSignals{Error: err.Error()})
		return
	}
	s.record(r.Context(), signals.Text, signals.Recursive, res)

	if err := sse.MarshalAndPatchSignals(resultSignals{Result: res}); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// handleUpdates is the long-lived SSE endpoint pushing results of the
// watched file. The latest result, if any, is sent immediately.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	send := func() {
		u, ok := s.notifier.Latest()
		if !ok {
			return
		}
		if err := sse.MarshalAndPatchSignals(resultSignals{
			Result:  u.Result,
			Error:   u.Err,
			Path:    u.Path,
			Version: u.Version,
		}); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
	send()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			send()
		}
	}
}
