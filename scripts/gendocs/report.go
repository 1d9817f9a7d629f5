package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/macroscope/internal/resolve"
)

// reportExample is resolved to produce the sample report.
const reportExample = `macro_rules! inner { () => { 1 } }
macro_rules! outer { () => { inner!(); } }
outer!();`

// fieldDocs describes the serialized report fields by JSON name.
var fieldDocs = map[string]string{
	"syntax_nodes":   "Debug dump of the parsed document, one node per line",
	"macro_rules":    "Every registered definition as name followed by its body, sorted by name",
	"calls":          "Expanded call sites in document order",
	"call_site_text": "Source text of the invocation",
	"expansion_text": "Rendered expansion",
	"children":       "Calls found in the expansion; empty unless resolving recursively",
}

// diagnosticDocs describes why a call is left out of a report.
var diagnosticDocs = []struct {
	kind resolve.DiagnosticKind
	text string
}{
	{resolve.DiagUnresolvedName, "No definition with the invoked name"},
	{resolve.DiagMalformedInvocation, "The call has no usable path or argument tree"},
	{resolve.DiagExpansionFailed, "No rule of the definition matched the arguments"},
	{resolve.DiagMalformedDefinition, "A macro_rules! definition failed to compile and was ignored"},
	{resolve.DiagDepthExceeded, "An expansion at the depth bound still contained calls"},
	{resolve.DiagBudgetExceeded, "The run reached its expansion or token budget"},
}

type reportField struct {
	owner string
	name  string
	typ   string
}

// reportFields lists the serialized fields of v's struct type. Fields
// tagged json:"-" are skipped.
func reportFields(v any) []reportField {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var out []reportField
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			continue
		}
		out = append(out, reportField{owner: t.Name(), name: name, typ: jsonType(f.Type)})
	}
	return out
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice:
		elem := t.Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			return elem.Name() + "[]"
		}
		return jsonType(elem) + "[]"
	}
	return t.Kind().String()
}

// generateReportDocs writes the reference of the expansion report.
func generateReportDocs(outDir string) error {
	log.Printf("Generating report docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	res, err := resolve.Resolve(reportExample, true)
	if err != nil {
		return fmt.Errorf("failed to resolve example: %w", err)
	}
	sample, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode example: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Expansion Report", "Format of the report produced by expand, the HTTP API and the history store")
	w.GeneratedMarker()

	w.Header(1, "Expansion Report")
	w.Paragraph("Every run produces the same report. " + InlineCode("--output json") +
		" prints it, " + InlineCode("POST /api/expand") + " returns it and the history store keeps it per run.")

	w.Header(2, "Fields")
	var rows [][]string
	for _, f := range append(reportFields(resolve.Result{}), reportFields(resolve.Node{})...) {
		rows = append(rows, []string{f.owner, InlineCode(f.name), f.typ, fieldDocs[f.name]})
	}
	w.Table([]string{"Object", "Field", "Type", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("rust", reportExample)
	w.Paragraph("resolved recursively:")
	w.CodeBlock("json", string(sample))

	w.Header(2, "Limits")
	w.Paragraph("Recursive runs stop expanding at any of these bounds and keep what was expanded so far:")
	w.Table([]string{"Key", "Default", "Bounds"}, [][]string{
		{InlineCode("max_depth"), fmt.Sprint(resolve.DefaultMaxDepth), "Nesting of expansions inside expansions"},
		{InlineCode("max_expansions"), fmt.Sprint(resolve.DefaultMaxExpansions), "Invocations expanded in one run"},
		{InlineCode("max_tokens"), fmt.Sprint(resolve.DefaultMaxTokens), "Tokens produced by all expansions of one run"},
	})

	w.Header(2, "Diagnostics")
	w.Paragraph("Calls that cannot be expanded are left out of the report. " + InlineCode("expand --explain") +
		" lists them with one of these kinds:")
	var diags [][]string
	for _, d := range diagnosticDocs {
		diags = append(diags, []string{InlineCode(string(d.kind)), d.text})
	}
	w.Table([]string{"Kind", "Meaning"}, diags)

	return os.WriteFile(filepath.Join(outDir, "report.md"), w.Bytes(), 0600)
}
