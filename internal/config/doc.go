// Package config loads and validates the castline-server YAML configuration,
// with ${VAR} environment expansion and duration string parsing.
package config
