// Package config handles configuration loading and management for voxmail.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for voxmail.
type Config struct {
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Approval   ApprovalConfig   `mapstructure:"approval"`
	Workflow   WorkflowConfig   `mapstructure:"workflow"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

// AnthropicConfig holds Anthropic API settings for drafting and extraction.
type AnthropicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// OpenAIConfig holds OpenAI API settings for transcription.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GatewayConfig holds the email gateway connection settings.
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ChatConfig holds the chat transport settings.
type ChatConfig struct {
	WSURL         string        `mapstructure:"ws_url"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

// ApprovalConfig holds the approval workflow settings.
type ApprovalConfig struct {
	// DirectSendBypass lets an explicit send phrasing stand in for the
	// approval step. When false every draft waits for human approval.
	DirectSendBypass bool `mapstructure:"direct_send_bypass"`
	// IdleTimeout is how long a session may wait on the user before it is
	// cancelled by the reaper.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ReapInterval is how often the reaper scans for idle sessions.
	ReapInterval time.Duration `mapstructure:"reap_interval"`
}

// WorkflowConfig holds session workflow settings.
type WorkflowConfig struct {
	MaxRevisions int `mapstructure:"max_revisions"`
}

// ClassifierConfig holds intent classifier settings.
type ClassifierConfig struct {
	// RulesPath points to a YAML keyword override file. The file is watched
	// and reloaded on change. Empty means built-in keywords only.
	RulesPath string `mapstructure:"rules_path"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	LogPath string `mapstructure:"log_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, VOXMAIL_GATEWAY_API_KEY)
// 2. Project config (.voxmail.yaml in current directory or parent)
// 3. User config (~/.config/voxmail/config.yaml)
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

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("gateway.api_key", "VOXMAIL_GATEWAY_API_KEY")
	v.BindEnv("gateway.base_url", "VOXMAIL_GATEWAY_URL")
	v.BindEnv("chat.ws_url", "VOXMAIL_CHAT_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Gateway.APIKey = expandEnv(cfg.Gateway.APIKey)

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

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Gateway.APIKey = expandEnv(cfg.Gateway.APIKey)

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

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("openai.api_key", cfg.OpenAI.APIKey)
	v.Set("gateway.base_url", cfg.Gateway.BaseURL)
	v.Set("gateway.api_key", cfg.Gateway.APIKey)
	v.Set("chat.ws_url", cfg.Chat.WSURL)
	v.Set("chat.reconnect_wait", cfg.Chat.ReconnectWait.String())
	v.Set("approval.direct_send_bypass", cfg.Approval.DirectSendBypass)
	v.Set("approval.idle_timeout", cfg.Approval.IdleTimeout.String())
	v.Set("approval.reap_interval", cfg.Approval.ReapInterval.String())
	v.Set("workflow.max_revisions", cfg.Workflow.MaxRevisions)
	v.Set("classifier.rules_path", cfg.Classifier.RulesPath)
	v.Set("debug.log_path", cfg.Debug.LogPath)

	return v.WriteConfig()
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
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("openai.api_key", "")

	v.SetDefault("gateway.base_url", "http://localhost:8025")
	v.SetDefault("gateway.api_key", "")

	v.SetDefault("chat.ws_url", "ws://localhost:8080/ws")
	v.SetDefault("chat.reconnect_wait", "5s")

	v.SetDefault("approval.direct_send_bypass", true)
	v.SetDefault("approval.idle_timeout", "10m")
	v.SetDefault("approval.reap_interval", "1m")

	v.SetDefault("workflow.max_revisions", 20)

	v.SetDefault("classifier.rules_path", "")

	v.SetDefault("debug.log_path", "")
}

// getUserConfigDir returns the XDG config directory for voxmail.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "voxmail")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "voxmail")
	}
	return filepath.Join(home, ".config", "voxmail")
}

// findProjectConfig searches for .voxmail.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".voxmail.yaml")
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

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL: "http://localhost:8025",
		},
		Chat: ChatConfig{
			WSURL:         "ws://localhost:8080/ws",
			ReconnectWait: 5 * time.Second,
		},
		Approval: ApprovalConfig{
			DirectSendBypass: true,
			IdleTimeout:      10 * time.Minute,
			ReapInterval:     time.Minute,
		},
		Workflow: WorkflowConfig{
			MaxRevisions: 20,
		},
	}
}
