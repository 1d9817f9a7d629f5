package output

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/macroscope/internal/resolve"
)

// ReportOptions controls what a report includes.
type ReportOptions struct {
	// Explain adds the diagnostics for dropped definitions and invocations
	Explain bool

	// ShowSyntax adds the syntax tree dump
	ShowSyntax bool

	// Title overrides the report title
	Title string
}

func (o ReportOptions) title() string {
	if o.Title != "" {
		return o.Title
	}
	return "Macro Expansion"
}

// Report renders a resolution result in the effective mode. Structured
// modes write the report contract unchanged; diagnostics go to error output.
func (r *Renderer) Report(res *resolve.Result, opts ReportOptions) error {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		if _, err := r.Structured(res); err != nil {
			return err
		}
		if opts.Explain {
			for _, d := range res.Diagnostics {
				r.Warning(d.String())
			}
		}
		return nil
	case ModeMarkdown:
		r.Println(ReportMarkdown(res, opts))
		return nil
	case ModeHTML:
		html, err := MarkdownToHTML(ReportMarkdown(res, opts))
		if err != nil {
			return err
		}
		r.Printf("%s", html)
		return nil
	default:
		r.reportText(res, opts)
		return nil
	}
}

func (r *Renderer) reportText(res *resolve.Result, opts ReportOptions) {
	s := r.styles

	r.Println(s.Header1.Render(opts.title()))
	r.Println("")

	if opts.ShowSyntax {
		r.Println(s.Header2.Render("Syntax"))
		for _, line := range strings.Split(strings.TrimRight(res.SyntaxNodes, "\n"), "\n") {
			r.Println(s.Muted.Render("  " + line))
		}
		r.Println("")
	}

	r.Println(s.Header2.Render(fmt.Sprintf("Macro rules (%d)", len(res.MacroRules))))
	if len(res.MacroRules) == 0 {
		r.Println(s.Muted.Render("  none"))
	}
	for _, rule := range res.MacroRules {
		r.Println("  " + s.Rule.Render(rule))
	}
	r.Println("")

	r.Println(s.Header2.Render(fmt.Sprintf("Calls (%d)", res.CallCount())))
	if len(res.Calls) == 0 {
		r.Println(s.Muted.Render("  none"))
	}
	r.treeText(res.Calls, "  ")

	if opts.Explain && len(res.Diagnostics) > 0 {
		r.Println("")
		r.Println(s.Header2.Render(fmt.Sprintf("Diagnostics (%d)", len(res.Diagnostics))))
		for _, d := range res.Diagnostics {
			r.Printf("  %s %s\n", s.Warning.Render(string(d.Kind)), d.CallSite)
			r.Println(s.Muted.Render("    " + d.Reason.Error()))
		}
	}
}

func (r *Renderer) treeText(nodes []*resolve.Node, prefix string) {
	s := r.styles
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, indent := "├─ ", "│  "
		if last {
			branch, indent = "└─ ", "   "
		}
		r.Println(prefix + s.Branch.Render(branch) + s.CallSite.Render(oneLine(n.CallSiteText)))
		r.Println(prefix + s.Branch.Render(indent) + s.Branch.Render("=> ") + s.Expansion.Render(n.ExpansionText))
		r.treeText(n.Children, prefix+indent)
	}
}

// ReportMarkdown renders a resolution result as markdown.
func ReportMarkdown(res *resolve.Result, opts ReportOptions) string {
	var sb strings.Builder

	sb.WriteString(FormatHeader(1, opts.title()) + "\n\n")
	sb.WriteString(FormatKeyValue("Definitions", fmt.Sprintf("%d", len(res.MacroRules))) + "\n")
	sb.WriteString(FormatKeyValue("Calls", fmt.Sprintf("%d", res.CallCount())) + "\n\n")

	if opts.ShowSyntax {
		sb.WriteString(FormatHeader(2, "Syntax") + "\n\n")
		sb.WriteString(FormatCodeBlock("text", res.SyntaxNodes) + "\n\n")
	}

	sb.WriteString(FormatHeader(2, "Macro rules") + "\n\n")
	if len(res.MacroRules) == 0 {
		sb.WriteString("_none_\n")
	}
	for _, rule := range res.MacroRules {
		sb.WriteString("- " + InlineCode(rule) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(FormatHeader(2, "Calls") + "\n\n")
	if len(res.Calls) == 0 {
		sb.WriteString("_none_\n")
	}
	writeTreeMarkdown(&sb, res.Calls, 0)

	if opts.Explain && len(res.Diagnostics) > 0 {
		sb.WriteString("\n" + FormatHeader(2, "Diagnostics") + "\n\n")
		sb.WriteString("| Kind | Call site | Reason |\n| --- | --- | --- |\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n",
				d.Kind, escapeCell(InlineCode(d.CallSite)), escapeCell(d.Reason.Error()))
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeTreeMarkdown(sb *strings.Builder, nodes []*resolve.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Fprintf(sb, "%s- %s → %s\n", indent, InlineCode(n.CallSiteText), InlineCode(n.ExpansionText))
		writeTreeMarkdown(sb, n.Children, depth+1)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Dump renders the syntax tree of a result.
func (r *Renderer) Dump(res *resolve.Result) error {
	payload := struct {
		SyntaxNodes string `json:"syntax_nodes" yaml:"syntax_nodes"`
	}{res.SyntaxNodes}
	if ok, err := r.Structured(payload); ok {
		return err
	}

	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Println(FormatHeader(1, "Syntax"))
		r.Println("")
		r.Println(FormatCodeBlock("text", res.SyntaxNodes))
	case ModeHTML:
		html, err := MarkdownToHTML(FormatCodeBlock("text", res.SyntaxNodes))
		if err != nil {
			return err
		}
		r.Printf("%s", html)
	default:
		r.Printf("%s", res.SyntaxNodes)
		if !strings.HasSuffix(res.SyntaxNodes, "\n") {
			r.Println("")
		}
	}
	return nil
}

// Rules renders the registered macro definitions of a result.
func (r *Renderer) Rules(res *resolve.Result) error {
	payload := struct {
		MacroRules []string `json:"macro_rules" yaml:"macro_rules"`
	}{res.MacroRules}
	if ok, err := r.Structured(payload); ok {
		return err
	}

	var md strings.Builder
	md.WriteString(FormatHeader(1, fmt.Sprintf("Macro rules (%d)", len(res.MacroRules))) + "\n\n")
	for _, rule := range res.MacroRules {
		md.WriteString("- " + InlineCode(rule) + "\n")
	}

	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Printf("%s", md.String())
	case ModeHTML:
		html, err := MarkdownToHTML(md.String())
		if err != nil {
			return err
		}
		r.Printf("%s", html)
	default:
		if len(res.MacroRules) == 0 {
			r.Muted("No macro_rules! definitions found")
			return nil
		}
		for _, rule := range res.MacroRules {
			r.Println(r.styles.Rule.Render(rule))
		}
	}
	return nil
}
