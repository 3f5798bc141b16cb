package config

import _ "embed"

// DefaultConfigYAML embedded default configuration
//
//go:embed config.yaml
var DefaultConfigYAML []byte
