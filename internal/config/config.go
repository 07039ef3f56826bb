// Package config handles configuration loading and management for prodflow.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for prodflow.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	State     StateConfig     `mapstructure:"state"`
}

// GitHubConfig holds GitHub repository and authentication settings.
type GitHubConfig struct {
	Token  string   `mapstructure:"token"`
	Owner  string   `mapstructure:"owner"`
	Repo   string   `mapstructure:"repo"`
	Labels []string `mapstructure:"labels"`
	Branch string   `mapstructure:"branch"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// BedrockConfig holds AWS Bedrock settings used instead of the direct API.
type BedrockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// DefaultsConfig holds default planning values.
type DefaultsConfig struct {
	TeamSize int `mapstructure:"team_size"`
}

// DispatchConfig holds dispatcher settings.
type DispatchConfig struct {
	MaxWorkers  int           `mapstructure:"max_workers"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	FailFast    bool          `mapstructure:"fail_fast"`
}

// StateConfig holds run-store settings.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PRODFLOW_*, GITHUB_TOKEN, ANTHROPIC_API_KEY)
// 2. Project config (.prodflow.yaml in current directory or parent)
// 3. User config (~/.config/prodflow/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Project config takes precedence over the user file.
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PRODFLOW")
	v.AutomaticEnv()

	v.BindEnv("github.token", "PRODFLOW_GITHUB_TOKEN", "GITHUB_TOKEN")
	v.BindEnv("anthropic.api_key", "PRODFLOW_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("github.token", cfg.GitHub.Token)
	v.Set("github.owner", cfg.GitHub.Owner)
	v.Set("github.repo", cfg.GitHub.Repo)
	v.Set("github.labels", cfg.GitHub.Labels)
	v.Set("github.branch", cfg.GitHub.Branch)
	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("bedrock.enabled", cfg.Bedrock.Enabled)
	v.Set("bedrock.region", cfg.Bedrock.Region)
	v.Set("bedrock.profile", cfg.Bedrock.Profile)
	v.Set("defaults.team_size", cfg.Defaults.TeamSize)
	v.Set("dispatch.max_workers", cfg.Dispatch.MaxWorkers)
	v.Set("dispatch.task_timeout", cfg.Dispatch.TaskTimeout.String())
	v.Set("dispatch.fail_fast", cfg.Dispatch.FailFast)
	v.Set("state.path", cfg.State.Path)

	return v.WriteConfig()
}

// Validate checks that the configuration can drive a full pipeline run.
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github.owner and github.repo must be set")
	}
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token must be set (or GITHUB_TOKEN exported)")
	}
	if !c.Bedrock.Enabled && c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key must be set unless bedrock.enabled is true")
	}
	if c.Defaults.TeamSize < 1 {
		return fmt.Errorf("defaults.team_size must be at least 1")
	}
	if c.Dispatch.MaxWorkers < 1 {
		return fmt.Errorf("dispatch.max_workers must be at least 1")
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.token", "")
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.labels", []string{})
	v.SetDefault("github.branch", "main")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")

	v.SetDefault("bedrock.enabled", false)
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.profile", "")

	v.SetDefault("defaults.team_size", 2)

	v.SetDefault("dispatch.max_workers", 4)
	v.SetDefault("dispatch.task_timeout", "10m")
	v.SetDefault("dispatch.fail_fast", false)

	v.SetDefault("state.path", "")
}

// getUserConfigDir returns the XDG config directory for prodflow.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "prodflow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "prodflow")
	}
	return filepath.Join(home, ".config", "prodflow")
}

// findProjectConfig searches for .prodflow.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".prodflow.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Branch: "main",
		},
		Bedrock: BedrockConfig{
			Region: "us-east-1",
		},
		Defaults: DefaultsConfig{
			TeamSize: 2,
		},
		Dispatch: DispatchConfig{
			MaxWorkers:  4,
			TaskTimeout: 10 * time.Minute,
		},
	}
}
