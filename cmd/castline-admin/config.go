// ABOUTME: Configuration loading for the castline-admin CLI
// ABOUTME: Loads TOML config from XDG path with environment variable expansion

package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server ServerConfig `toml:"server"`
}

type ServerConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`

	// TimeoutDuration is the parsed form of Timeout.
	TimeoutDuration time.Duration `toml:"-"`
}

const defaultTimeout = 10 * time.Second

// loadConfig resolves admin configuration. The CASTLINE_SERVER_URL environment
// variable takes priority; otherwise the TOML file at the XDG config path is
// read, and if neither exists localhost defaults apply.
func loadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			URL:             "http://localhost:8080",
			TimeoutDuration: defaultTimeout,
		},
	}

	path := getConfigPath()
	if data, err := os.ReadFile(path); err == nil {
		expanded := expandEnvVars(string(data))
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if envURL := os.Getenv("CASTLINE_SERVER_URL"); envURL != "" {
		cfg.Server.URL = envURL
	}

	if cfg.Server.Timeout != "" {
		d, err := time.ParseDuration(cfg.Server.Timeout)
		if err != nil {
			return nil, fmt.Errorf("server.timeout is not a valid duration: %w", err)
		}
		cfg.Server.TimeoutDuration = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getConfigPath() string {
	if envPath := os.Getenv("CASTLINE_ADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "admin.toml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "castline", "admin.toml")
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// Validate checks that required config fields are present and valid.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https scheme")
	}
	return nil
}
