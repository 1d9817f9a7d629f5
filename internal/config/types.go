// Package config defines the macroscope configuration shared by the CLI,
// the HTTP server and the history store, and locates configuration files.
package config

// Config holds all configuration options.
type Config struct {
	// Recursive is the default for expanding the output of expansions
	Recursive bool `koanf:"recursive" yaml:"recursive" toml:"recursive"`

	// MaxDepth bounds recursive expansion; negative disables the bound
	MaxDepth int `koanf:"max_depth" yaml:"max_depth" toml:"max_depth"`

	// MaxExpansions and MaxTokens bound the work of one run
	MaxExpansions int `koanf:"max_expansions" yaml:"max_expansions" toml:"max_expansions"`
	MaxTokens     int `koanf:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// OutputFormat is one of auto, text, markdown, json, yaml, html
	OutputFormat string `koanf:"output" yaml:"output" toml:"output"`

	Verbose   bool   `koanf:"verbose" yaml:"verbose" toml:"verbose"`
	LogFormat string `koanf:"log_format" yaml:"log_format" toml:"log_format"`

	// StatePath is the path to the SQLite history database
	StatePath string `koanf:"state_path" yaml:"state_path" toml:"state_path"`

	// History enables recording runs in the history database
	History bool `koanf:"history" yaml:"history" toml:"history"`

	Server *ServerConfig `koanf:"server" yaml:"server" toml:"server"`

	// ProjectRoot is the directory relative paths are resolved against.
	// It is not read from configuration.
	ProjectRoot string `koanf:"-" yaml:"-" toml:"-"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port          int    `koanf:"port" yaml:"port" toml:"port"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty" toml:"session_secret"`

	// Watch is a document to watch; changes are pushed to connected clients
	Watch string `koanf:"watch" yaml:"watch,omitempty" toml:"watch"`
}

// GetServerConfig returns the server config with defaults applied for any
// unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return DefaultServerConfig()
	}
	s := *c.Server
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.SessionSecret == "" {
		s.SessionSecret = DefaultSessionSecret
	}
	return &s
}
