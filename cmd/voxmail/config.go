package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxmail/voxmail/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify voxmail configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/voxmail/config.yaml
Project-specific overrides can be placed in .voxmail.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orNotSet(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orNotSet(cfg.Anthropic.AWSRegion))
	fmt.Printf("anthropic.aws_profile: %s\n", orNotSet(cfg.Anthropic.AWSProfile))
	fmt.Printf("openai.api_key: %s\n", config.MaskAPIKey(cfg.OpenAI.APIKey))
	fmt.Printf("gateway.base_url: %s\n", cfg.Gateway.BaseURL)
	fmt.Printf("gateway.api_key: %s\n", config.MaskAPIKey(cfg.Gateway.APIKey))
	fmt.Printf("chat.ws_url: %s\n", cfg.Chat.WSURL)
	fmt.Printf("chat.reconnect_wait: %s\n", cfg.Chat.ReconnectWait)
	fmt.Printf("approval.direct_send_bypass: %t\n", cfg.Approval.DirectSendBypass)
	fmt.Printf("approval.idle_timeout: %s\n", cfg.Approval.IdleTimeout)
	fmt.Printf("approval.reap_interval: %s\n", cfg.Approval.ReapInterval)
	fmt.Printf("workflow.max_revisions: %d\n", cfg.Workflow.MaxRevisions)
	fmt.Printf("classifier.rules_path: %s\n", orNotSet(cfg.Classifier.RulesPath))
	fmt.Printf("debug.log_path: %s\n", orNotSet(cfg.Debug.LogPath))
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orNotSet(cfg.Anthropic.Model), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return orNotSet(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orNotSet(cfg.Anthropic.AWSProfile), nil
	case "openai.api_key":
		return config.MaskAPIKey(cfg.OpenAI.APIKey), nil
	case "gateway.base_url":
		return cfg.Gateway.BaseURL, nil
	case "gateway.api_key":
		return config.MaskAPIKey(cfg.Gateway.APIKey), nil
	case "chat.ws_url":
		return cfg.Chat.WSURL, nil
	case "chat.reconnect_wait":
		return cfg.Chat.ReconnectWait.String(), nil
	case "approval.direct_send_bypass":
		return strconv.FormatBool(cfg.Approval.DirectSendBypass), nil
	case "approval.idle_timeout":
		return cfg.Approval.IdleTimeout.String(), nil
	case "approval.reap_interval":
		return cfg.Approval.ReapInterval.String(), nil
	case "workflow.max_revisions":
		return strconv.Itoa(cfg.Workflow.MaxRevisions), nil
	case "classifier.rules_path":
		return orNotSet(cfg.Classifier.RulesPath), nil
	case "debug.log_path":
		return orNotSet(cfg.Debug.LogPath), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "openai.api_key":
		cfg.OpenAI.APIKey = value
	case "gateway.base_url":
		cfg.Gateway.BaseURL = value
	case "gateway.api_key":
		cfg.Gateway.APIKey = value
	case "chat.ws_url":
		cfg.Chat.WSURL = value
	case "chat.reconnect_wait":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for reconnect_wait: %w", err)
		}
		cfg.Chat.ReconnectWait = d
	case "approval.direct_send_bypass":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for direct_send_bypass: %w", err)
		}
		cfg.Approval.DirectSendBypass = b
	case "approval.idle_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for idle_timeout: %w", err)
		}
		cfg.Approval.IdleTimeout = d
	case "approval.reap_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for reap_interval: %w", err)
		}
		cfg.Approval.ReapInterval = d
	case "workflow.max_revisions":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_revisions: %w", err)
		}
		cfg.Workflow.MaxRevisions = n
	case "classifier.rules_path":
		cfg.Classifier.RulesPath = value
	case "debug.log_path":
		cfg.Debug.LogPath = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
