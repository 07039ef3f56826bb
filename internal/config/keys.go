package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no Anthropic API key is configured.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// ErrNoToken is returned when no GitHub token is configured.
var ErrNoToken = errors.New("no GitHub token configured")

// GetAPIKey returns the Anthropic API key, checking in order:
// environment variable, config file.
func GetAPIKey(cfg *Config) (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}

	if cfg != nil && cfg.Anthropic.APIKey != "" {
		key := os.ExpandEnv(cfg.Anthropic.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", ErrNoAPIKey
}

// GetGitHubToken returns the GitHub token, checking in order:
// environment variable, config file.
func GetGitHubToken(cfg *Config) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	if cfg != nil && cfg.GitHub.Token != "" {
		token := os.ExpandEnv(cfg.GitHub.Token)
		if token != "" && !strings.HasPrefix(token, "${") {
			return token, nil
		}
	}

	return "", ErrNoToken
}

// MaskSecret returns a masked version of a secret for display.
// Shows the first 7 and last 4 characters when long enough.
func MaskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 15 {
		return strings.Repeat("*", len(s))
	}
	return s[:7] + strings.Repeat("*", len(s)-11) + s[len(s)-4:]
}
