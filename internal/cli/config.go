package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Timeout   time.Duration
	Output    string
	Verbose   bool
}

// DefaultConfig reads RPCTL_* variables, falling back to a local server
func DefaultConfig() *Config {
	timeout := 30 * time.Second
	if v := os.Getenv("RPCTL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return &Config{
		ServerURL: envOr("RPCTL_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("RPCTL_TOKEN"),
		TokenFile: envOr("RPCTL_TOKEN_FILE", defaultTokenFile()),
		Timeout:   timeout,
		Output:    "text",
	}
}

// Validate checks flag values after parsing
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// LoadToken reads the token file unless a token was given directly. A
// missing file is not an error.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken stores an admin token readable only by the current user
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0o600)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rpctl", "token")
	}
	return filepath.Join(home, ".rpctl", "token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
