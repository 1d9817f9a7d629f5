// Package config provides configuration management for the macroscope CLI.
//
// The configuration types live in internal/config and are re-exported here
// via type aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/macroscope/internal/config"
)

// Config is an alias for the shared configuration.
type Config = sharedcfg.Config

// ServerConfig is an alias for the shared server configuration.
type ServerConfig = sharedcfg.ServerConfig

// Default configuration values.
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = sharedcfg.DefaultOutput
	DefaultMaxDepth  = sharedcfg.DefaultMaxDepth

	DefaultMaxExpansions = sharedcfg.DefaultMaxExpansions
	DefaultMaxTokens     = sharedcfg.DefaultMaxTokens
)
