// Package state keeps a history of resolution runs in SQLite.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/macroscope/internal/resolve"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Store persists resolution runs.
type Store interface {
	Open(path string) error
	Migrate() error
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}

// Run is one recorded resolution.
type Run struct {
	ID        string
	CreatedAt time.Time

	// SourceName is the file the source was read from, "-" for stdin,
	// or empty for sources submitted over HTTP
	SourceName string
	Source     string

	Recursive bool
	MaxDepth  int

	CallCount       int
	DefinitionCount int

	// ResultJSON is the serialized resolve.Result
	ResultJSON string
}

// NewRun builds a run record for a resolution result.
func NewRun(sourceName, source string, recursive bool, maxDepth int, res *resolve.Result) (*Run, error) {
	data, err := res.JSON()
	if err != nil {
		return nil, err
	}
	return &Run{
		SourceName:      sourceName,
		Source:          source,
		Recursive:       recursive,
		MaxDepth:        maxDepth,
		CallCount:       res.CallCount(),
		DefinitionCount: len(res.MacroRules),
		ResultJSON:      string(data),
	}, nil
}

// Result decodes the stored result.
func (r *Run) Result() (*resolve.Result, error) {
	var res resolve.Result
	if err := json.Unmarshal([]byte(r.ResultJSON), &res); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", r.ID, err)
	}
	return &res, nil
}

// Preview returns the first non-blank line of the source, cut to n runes.
func (r *Run) Preview(n int) string {
	line := ""
	for _, l := range strings.Split(r.Source, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	runes := []rune(line)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return line
}
