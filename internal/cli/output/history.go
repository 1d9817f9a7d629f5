package output

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/macroscope/internal/state"
)

// RunSummary is the structured form of a history entry.
type RunSummary struct {
	ID              string    `json:"id" yaml:"id"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	SourceName      string    `json:"source_name,omitempty" yaml:"source_name,omitempty"`
	Recursive       bool      `json:"recursive" yaml:"recursive"`
	MaxDepth        int       `json:"max_depth" yaml:"max_depth"`
	CallCount       int       `json:"call_count" yaml:"call_count"`
	DefinitionCount int       `json:"definition_count" yaml:"definition_count"`
	Preview         string    `json:"preview" yaml:"preview"`
}

const previewWidth = 48

// Summarize converts stored runs to summaries.
func Summarize(runs []*state.Run) []RunSummary {
	out := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunSummary{
			ID:              run.ID,
			CreatedAt:       run.CreatedAt,
			SourceName:      run.SourceName,
			Recursive:       run.Recursive,
			MaxDepth:        run.MaxDepth,
			CallCount:       run.CallCount,
			DefinitionCount: run.DefinitionCount,
			Preview:         run.Preview(previewWidth),
		})
	}
	return out
}

// Runs renders a list of history entries.
func (r *Renderer) Runs(runs []*state.Run) error {
	summaries := Summarize(runs)
	if ok, err := r.Structured(summaries); ok {
		return err
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded")
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Created", "Source", "Recursive", "Calls", "Rules", "Preview"})
	for _, s := range summaries {
		source := s.SourceName
		if source == "" {
			source = "-"
		}
		t.AppendRow(table.Row{
			s.ID,
			s.CreatedAt.Local().Format(time.DateTime),
			source,
			s.Recursive,
			s.CallCount,
			s.DefinitionCount,
			s.Preview,
		})
	}

	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Println(FormatHeader(1, fmt.Sprintf("Runs (%d)", len(runs))))
		r.Println("")
		r.Println(t.RenderMarkdown())
	case ModeHTML:
		r.Println(t.RenderHTML())
	default:
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
	}
	return nil
}

// RunHeader renders the metadata of one history entry ahead of its report.
func (r *Renderer) RunHeader(run *state.Run) {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		return
	case ModeText:
		s := r.styles
		r.Printf("%s %s\n", s.Bold.Render("Run"), run.ID)
		r.Printf("%s %s\n", s.Muted.Render("created"), run.CreatedAt.Local().Format(time.DateTime))
		if run.SourceName != "" {
			r.Printf("%s %s\n", s.Muted.Render("source "), run.SourceName)
		}
		r.Printf("%s %t (max depth %d)\n", s.Muted.Render("recursive"), run.Recursive, run.MaxDepth)
		r.Println("")
	default:
		r.Println(FormatHeader(1, "Run "+run.ID))
		r.Println("")
		r.Println(FormatKeyValue("Created", run.CreatedAt.UTC().Format(time.RFC3339)))
		if run.SourceName != "" {
			r.Println(FormatKeyValue("Source", run.SourceName))
		}
		r.Println(FormatKeyValue("Recursive", fmt.Sprintf("%t", run.Recursive)))
		r.Println(FormatKeyValue("Max depth", fmt.Sprintf("%d", run.MaxDepth)))
		r.Println("")
	}
}
