package config

import (
	"fmt"
	"slices"
)

// Default configuration values.
const (
	DefaultMaxDepth      = 64
	DefaultMaxExpansions = 10000
	DefaultMaxTokens     = 1 << 20
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat     = "text"
	DefaultStateFile     = ".macroscope/state.db"
	DefaultPort          = 8787
	DefaultSessionSecret = "macroscope-dev-secret-change-me"
)

// OutputFormats lists the accepted values of the output option.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml", "html"}

// LogFormats lists the accepted values of the log_format option.
var LogFormats = []string{"text", "json"}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		MaxDepth:      DefaultMaxDepth,
		MaxExpansions: DefaultMaxExpansions,
		MaxTokens:     DefaultMaxTokens,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		StatePath:    DefaultStateFile,
		History:      true,
		Server:       DefaultServerConfig(),
	}
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          DefaultPort,
		SessionSecret: DefaultSessionSecret,
	}
}

// DefaultMap returns the defaults as flat koanf keys.
func DefaultMap() map[string]any {
	return map[string]any{
		"recursive":             false,
		"max_depth":             DefaultMaxDepth,
		"max_expansions":        DefaultMaxExpansions,
		"max_tokens":            DefaultMaxTokens,
		"output":                DefaultOutput,
		"verbose":               false,
		"log_format":            DefaultLogFormat,
		"state_path":            DefaultStateFile,
		"history":               true,
		"server.port":           DefaultPort,
		"server.session_secret": DefaultSessionSecret,
		"server.watch":          "",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputFormats)
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (expected one of %v)", c.LogFormat, LogFormats)
	}
	if c.History && c.StatePath == "" {
		return fmt.Errorf("state_path is required when history is enabled")
	}
	if c.Server != nil && (c.Server.Port < 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
