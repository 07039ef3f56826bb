package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jisaf/prodflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View or modify prodflow configuration.

Configuration is stored at ~/.config/prodflow/config.yaml.
Project-specific overrides can be placed in .prodflow.yaml.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Printf("github.token: %s\n", config.MaskSecret(cfg.GitHub.Token))
		fmt.Printf("github.owner: %s\n", cfg.GitHub.Owner)
		fmt.Printf("github.repo: %s\n", cfg.GitHub.Repo)
		fmt.Printf("github.labels: %s\n", strings.Join(cfg.GitHub.Labels, ","))
		fmt.Printf("github.branch: %s\n", cfg.GitHub.Branch)
		fmt.Printf("anthropic.api_key: %s\n", config.MaskSecret(cfg.Anthropic.APIKey))
		fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
		fmt.Printf("bedrock.enabled: %t\n", cfg.Bedrock.Enabled)
		fmt.Printf("bedrock.region: %s\n", cfg.Bedrock.Region)
		fmt.Printf("bedrock.profile: %s\n", cfg.Bedrock.Profile)
		fmt.Printf("defaults.team_size: %d\n", cfg.Defaults.TeamSize)
		fmt.Printf("dispatch.max_workers: %d\n", cfg.Dispatch.MaxWorkers)
		fmt.Printf("dispatch.task_timeout: %s\n", cfg.Dispatch.TaskTimeout)
		fmt.Printf("dispatch.fail_fast: %t\n", cfg.Dispatch.FailFast)
		fmt.Printf("state.path: %s\n", cfg.State.Path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file locations",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("user:    %s\n", config.GetUserConfigPath())
		if project := config.GetProjectConfigPath(); project != "" {
			fmt.Printf("project: %s\n", project)
		} else {
			fmt.Println("project: (none)")
		}
	},
}

// setConfigValue applies a dot-notation key to the config struct.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "github.token":
		cfg.GitHub.Token = value
	case "github.owner":
		cfg.GitHub.Owner = value
	case "github.repo":
		cfg.GitHub.Repo = value
	case "github.labels":
		cfg.GitHub.Labels = strings.Split(value, ",")
	case "github.branch":
		cfg.GitHub.Branch = value
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "bedrock.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.Bedrock.Enabled = b
	case "bedrock.region":
		cfg.Bedrock.Region = value
	case "bedrock.profile":
		cfg.Bedrock.Profile = value
	case "defaults.team_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		cfg.Defaults.TeamSize = n
	case "dispatch.max_workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		cfg.Dispatch.MaxWorkers = n
	case "dispatch.task_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		cfg.Dispatch.TaskTimeout = d
	case "dispatch.fail_fast":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.Dispatch.FailFast = b
	case "state.path":
		cfg.State.Path = value
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
