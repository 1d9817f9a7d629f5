package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/macroscope/internal/cli"
	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// modeDescriptions documents every --output mode.
var modeDescriptions = map[output.OutputMode]string{
	output.ModeAuto:     "Text on a terminal, markdown when piped",
	output.ModeText:     "Styled expansion tree for terminals",
	output.ModeMarkdown: "Markdown report, the default for scripts and agents",
	output.ModeJSON:     "The report in the JSON format described in the report reference",
	output.ModeYAML:     "The same report as YAML",
	output.ModeHTML:     "The markdown report rendered to an HTML fragment",
}

// commandPage is the documentation of one command before rendering.
type commandPage struct {
	path      string
	short     string
	long      string
	usage     string
	example   string
	aliases   []string
	children  []*commandPage
	flags     []flagRow
	inherited []flagRow
}

// file names the page; subcommands are joined with dashes.
func (p *commandPage) file() string {
	return strings.ReplaceAll(p.path, " ", "-") + ".md"
}

func (p *commandPage) link() string {
	return fmt.Sprintf("[%s](/cli/%s)", InlineCode(p.path), strings.TrimSuffix(p.file(), ".md"))
}

type flagRow struct {
	name      string
	shorthand string
	def       string
	usage     string
}

func (f flagRow) cells() []string {
	short := ""
	if f.shorthand != "" {
		short = "-" + f.shorthand
	}
	return []string{InlineCode("--" + f.name), short, f.def, cleanDescription(f.usage)}
}

// documented returns the subcommands worth a page.
func documented(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" || strings.HasPrefix(c.Name(), "__") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// collectPages describes every documented command below root, parents
// before their subcommands.
func collectPages(root *cobra.Command) []*commandPage {
	var pages []*commandPage
	var visit func(cmd *cobra.Command, prefix string) *commandPage
	visit = func(cmd *cobra.Command, prefix string) *commandPage {
		p := &commandPage{
			path:      strings.TrimSpace(prefix + " " + cmd.Name()),
			short:     cmd.Short,
			long:      cmd.Long,
			usage:     usageLine(cmd),
			example:   dedent(cmd.Example),
			aliases:   cmd.Aliases,
			flags:     flagRows(cmd.LocalNonPersistentFlags()),
			inherited: flagRows(cmd.InheritedFlags()),
		}
		pages = append(pages, p)
		for _, sub := range documented(cmd) {
			p.children = append(p.children, visit(sub, p.path))
		}
		return p
	}
	for _, cmd := range documented(root) {
		visit(cmd, "")
	}
	return pages
}

func usageLine(cmd *cobra.Command) string {
	if cmd.HasAvailableSubCommands() {
		return cmd.CommandPath() + " <subcommand> [options]"
	}
	return cmd.UseLine()
}

// flagRows lists the visible flags of fs.
func flagRows(fs *pflag.FlagSet) []flagRow {
	var rows []flagRow
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		def := f.DefValue
		if def != "" && f.Value.Type() == "string" {
			def = InlineCode(def)
		}
		rows = append(rows, flagRow{name: f.Name, shorthand: f.Shorthand, def: def, usage: f.Usage})
	})
	return rows
}

func writeFlags(w *MarkdownWriter, rows []flagRow) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.cells())
	}
	w.Table([]string{"Option", "Short", "Default", "Description"}, cells)
}

// generateCLIDocs writes an index page and one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := collectPages(root)

	if err := writeCLIIndex(root, pages, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	for _, p := range pages {
		if err := writeCommandPage(p, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", p.path, err)
		}
		log.Printf("  Generated %s", p.file())
	}
	return nil
}

func writeCLIIndex(root *cobra.Command, pages []*commandPage, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for macroscope")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/macroscope/cmd/macroscope@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, p := range pages {
		rows = append(rows, []string{p.link(), cleanDescription(p.short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlags(w, flagRows(root.PersistentFlags()))

	w.Header(2, "Output Modes")
	w.Paragraph("Select a mode with " + InlineCode("--output") + " or the " + InlineCode("output") + " key:")
	var modes [][]string
	for _, m := range output.Modes {
		modes = append(modes, []string{InlineCode(string(m)), modeDescriptions[m]})
	}
	w.Table([]string{"Mode", "Output"}, modes)

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set with a " + InlineCode(config.EnvPrefix) +
		" variable. Nested keys use a double underscore. Flags override variables, which override the config file.")
	var env [][]string
	for _, f := range getConfigSchema() {
		env = append(env, []string{InlineCode(envVarName(f.Name)), InlineCode(f.Name)})
	}
	w.Table([]string{"Variable", "Key"}, env)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success, including documents whose invocations could not be expanded"},
		{InlineCode("1"), "Unreadable input, invalid configuration or an internal resolver error"},
	})

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func writeCommandPage(p *commandPage, outDir string) error {
	w := NewMarkdownWriter()
	w.Frontmatter(p.path, p.short)
	w.GeneratedMarker()

	w.Header(1, p.path)
	if p.long != "" {
		w.Paragraph(p.long)
	} else {
		w.Paragraph(p.short)
	}
	w.Header(2, "Usage")
	w.CodeBlock("bash", p.usage)

	if len(p.aliases) > 0 {
		w.Header(2, "Aliases")
		items := make([]string, len(p.aliases))
		for i, a := range p.aliases {
			items[i] = InlineCode(a)
		}
		w.BulletList(items)
	}
	if len(p.children) > 0 {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, c := range p.children {
			rows = append(rows, []string{c.link(), cleanDescription(c.short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}
	if len(p.flags) > 0 {
		w.Header(2, "Options")
		writeFlags(w, p.flags)
	}
	if len(p.inherited) > 0 {
		w.Header(2, "Global Options")
		writeFlags(w, p.inherited)
	}
	if p.example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", p.example)
	}

	return os.WriteFile(filepath.Join(outDir, p.file()), w.Bytes(), 0600)
}

// dedent strips the indentation shared by every non-blank line of s.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	width := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); width < 0 || n < width {
			width = n
		}
	}
	if width <= 0 {
		return strings.TrimSpace(s)
	}
	for i, line := range lines {
		if len(line) < width {
			lines[i] = ""
			continue
		}
		lines[i] = line[width:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
