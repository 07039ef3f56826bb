package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GitHub.Branch != "main" {
		t.Errorf("expected default branch 'main', got %q", cfg.GitHub.Branch)
	}

	if cfg.Defaults.TeamSize != 2 {
		t.Errorf("expected default team size 2, got %d", cfg.Defaults.TeamSize)
	}

	if cfg.Dispatch.MaxWorkers != 4 {
		t.Errorf("expected default max workers 4, got %d", cfg.Dispatch.MaxWorkers)
	}

	if cfg.Dispatch.TaskTimeout != 10*time.Minute {
		t.Errorf("expected default task timeout 10m, got %v", cfg.Dispatch.TaskTimeout)
	}

	if cfg.Bedrock.Region != "us-east-1" {
		t.Errorf("expected default bedrock region us-east-1, got %q", cfg.Bedrock.Region)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `github:
  owner: acme
  repo: shop
  labels:
    - feature
    - bug
defaults:
  team_size: 5
dispatch:
  max_workers: 8
  task_timeout: 30m
  fail_fast: true
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repo != "shop" {
		t.Errorf("github repo not loaded: %+v", cfg.GitHub)
	}
	if len(cfg.GitHub.Labels) != 2 {
		t.Errorf("expected 2 labels, got %v", cfg.GitHub.Labels)
	}
	if cfg.Defaults.TeamSize != 5 {
		t.Errorf("expected team size 5, got %d", cfg.Defaults.TeamSize)
	}
	if cfg.Dispatch.MaxWorkers != 8 || cfg.Dispatch.TaskTimeout != 30*time.Minute || !cfg.Dispatch.FailFast {
		t.Errorf("dispatch settings not loaded: %+v", cfg.Dispatch)
	}
	// Unset keys keep their defaults.
	if cfg.GitHub.Branch != "main" {
		t.Errorf("expected default branch, got %q", cfg.GitHub.Branch)
	}
}

func TestLoadFromPathExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_PRODFLOW_TOKEN", "ghp_secret")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "github:\n  token: ${TEST_PRODFLOW_TOKEN}\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.GitHub.Token != "ghp_secret" {
		t.Errorf("expected expanded token, got %q", cfg.GitHub.Token)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "shop"
	cfg.GitHub.Token = "ghp_tok"
	cfg.Anthropic.APIKey = "sk-ant-xxx"

	if err := cfg.Validate(); err != nil {
		t.Errorf("complete config should validate, got %v", err)
	}

	missing := *cfg
	missing.GitHub.Token = ""
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing token")
	}

	bedrock := *cfg
	bedrock.Anthropic.APIKey = ""
	bedrock.Bedrock.Enabled = true
	if err := bedrock.Validate(); err != nil {
		t.Errorf("bedrock config should not require api key, got %v", err)
	}
}

func TestGetAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	os.Unsetenv("ANTHROPIC_API_KEY")

	if _, err := GetAPIKey(nil); err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}

	cfg := Default()
	cfg.Anthropic.APIKey = "sk-ant-from-file"
	key, err := GetAPIKey(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "sk-ant-from-file" {
		t.Errorf("expected config key, got %q", key)
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-from-env")
	key, _ = GetAPIKey(cfg)
	if key != "sk-ant-from-env" {
		t.Errorf("env must win over config, got %q", key)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret(""); got != "(not set)" {
		t.Errorf("empty secret: got %q", got)
	}
	if got := MaskSecret("short"); got != "*****" {
		t.Errorf("short secret: got %q", got)
	}
	long := "ghp_abcdefghijklmnopqrst"
	got := MaskSecret(long)
	if !strings.HasPrefix(got, "ghp_abc") || !strings.HasSuffix(got, "qrst") {
		t.Errorf("long secret should keep edges, got %q", got)
	}
	if strings.Contains(got, "defghijklmnop") {
		t.Errorf("middle should be masked, got %q", got)
	}
}
