package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/macroscope/internal/cli/config"
)

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "resolver", "output", "history", "server"
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/config/types.go Config and ServerConfig.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "recursive", Type: "bool", Default: "false", Description: "Expand invocations found in expansion output", Category: "resolver"},
		{Name: "max_depth", Type: "int", Default: fmt.Sprint(config.DefaultMaxDepth), Description: "Recursion bound; negative disables it", Category: "resolver"},
		{Name: "max_expansions", Type: "int", Default: fmt.Sprint(config.DefaultMaxExpansions), Description: "Invocations expanded per run; negative disables the bound", Category: "resolver"},
		{Name: "max_tokens", Type: "int", Default: fmt.Sprint(config.DefaultMaxTokens), Description: "Tokens produced by all expansions of a run; negative disables the bound", Category: "resolver"},

		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "auto, text, markdown, json, yaml or html", Category: "output"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging", Category: "output"},
		{Name: "log_format", Type: "string", Default: "text", Description: "Log format: text or json", Category: "output"},

		{Name: "history", Type: "bool", Default: "true", Description: "Record runs in the history database", Category: "history"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "History database, relative to the project root", Category: "history"},

		{Name: "server.port", Type: "int", Default: "8787", Description: "HTTP port of macroscope serve", Category: "server"},
		{Name: "server.session_secret", Type: "string", Description: "Secret of the preferences cookie", Category: "server"},
		{Name: "server.watch", Type: "string", Description: "Document pushed to playground clients as it changes", Category: "server"},
	}
}

// envVarName returns the environment variable for a config key.
func envVarName(key string) string {
	return config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "macroscope configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("macroscope reads `macroscope.yaml`, `macroscope.yml` or `macroscope.toml` from the project root, " +
		"the nearest ancestor of the working directory holding one of them.")

	fields := getConfigSchema()
	sections := []struct {
		category string
		title    string
	}{
		{"resolver", "Resolver"},
		{"output", "Output and Logging"},
		{"history", "History"},
		{"server", "Server"},
	}

	headers := []string{"Key", "Type", "Default", "Environment", "Description"}
	for _, sec := range sections {
		w.Header(2, sec.title)
		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{
				InlineCode(f.Name),
				f.Type,
				defVal,
				InlineCode(envVarName(f.Name)),
				f.Description,
			})
		}
		w.Table(headers, rows)
	}

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# macroscope.yaml
recursive: true
max_depth: 64
output: auto
history: true
state_path: .macroscope/state.db

server:
  port: 8787
  watch: src/main.rs`)

	w.Paragraph("The same settings in TOML:")
	w.CodeBlock("toml", `# macroscope.toml
recursive = true
max_depth = 64
output = "auto"

[server]
port = 8787`)

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
