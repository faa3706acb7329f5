// Package config handles configuration loading and management for interviewcrew.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported backend providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// ProjectConfigName is the project-level override file.
const ProjectConfigName = ".interviewcrew.yaml"

// Config holds all configuration for interviewcrew.
type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Personas  PersonasConfig  `mapstructure:"personas"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
}

// BackendConfig selects and tunes the language-model backend.
type BackendConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is optional; the default credential chain is used when empty.
	AWSProfile string `mapstructure:"aws_profile"`
	// RequestTimeout bounds a single crew run. Zero means no limit.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DiscoveryConfig controls which files are considered interview files.
type DiscoveryConfig struct {
	Pattern string `mapstructure:"pattern"`
}

// PersonasConfig points at an optional YAML file overriding agent personas.
type PersonasConfig struct {
	File string `mapstructure:"file"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (INTERVIEWCREW_BACKEND_PROVIDER, AWS_REGION, ...)
// 2. Project config (.interviewcrew.yaml in current directory or parent)
// 3. User config (~/.config/interviewcrew/config.yaml)
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

	bindEnv(v)

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	return unmarshal(v)
}

// LoadUser loads only the user config file, without project overrides,
// environment variables or ${VAR} expansion. A missing file yields the
// defaults. It is the base that config changes are applied to before Save.
func LoadUser() (*Config, error) {
	path := GetUserConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading user config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	return SaveTo(GetUserConfigPath(), cfg)
}

// SaveTo writes the configuration to path, creating its directory.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.Set("backend.provider", cfg.Backend.Provider)
	v.Set("backend.model", cfg.Backend.Model)
	v.Set("backend.max_tokens", cfg.Backend.MaxTokens)
	v.Set("backend.aws_region", cfg.Backend.AWSRegion)
	v.Set("backend.aws_profile", cfg.Backend.AWSProfile)
	v.Set("backend.request_timeout", cfg.Backend.RequestTimeout.String())
	v.Set("discovery.pattern", cfg.Discovery.Pattern)
	v.Set("personas.file", cfg.Personas.File)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	return v.WriteConfig()
}

// Values flattens the configuration into dotted keys.
func (c *Config) Values() map[string]string {
	return map[string]string{
		"backend.provider":        c.Backend.Provider,
		"backend.model":           c.Backend.Model,
		"backend.max_tokens":      strconv.Itoa(c.Backend.MaxTokens),
		"backend.aws_region":      c.Backend.AWSRegion,
		"backend.aws_profile":     c.Backend.AWSProfile,
		"backend.request_timeout": c.Backend.RequestTimeout.String(),
		"discovery.pattern":       c.Discovery.Pattern,
		"personas.file":           c.Personas.File,
		"history.enabled":         strconv.FormatBool(c.History.Enabled),
		"history.path":            c.History.Path,
		"log.level":               c.Log.Level,
		"log.file":                c.Log.File,
	}
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, 12)
	for k := range Default().Values() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a dotted key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend.provider":
		if !ValidProvider(value) {
			return fmt.Errorf("unknown provider %q", value)
		}
		c.Backend.Provider = value
	case "backend.model":
		c.Backend.Model = value
	case "backend.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_tokens %q", value)
		}
		c.Backend.MaxTokens = n
	case "backend.aws_region":
		c.Backend.AWSRegion = value
	case "backend.aws_profile":
		c.Backend.AWSProfile = value
	case "backend.request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", value, err)
		}
		c.Backend.RequestTimeout = d
	case "discovery.pattern":
		c.Discovery.Pattern = value
	case "personas.file":
		c.Personas.File = value
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid history.enabled %q", value)
		}
		c.History.Enabled = b
	case "history.path":
		c.History.Path = value
	case "log.level":
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// ValidProvider reports whether name is a supported backend provider.
func ValidProvider(name string) bool {
	switch name {
	case ProviderAnthropic, ProviderBedrock, ProviderOpenAI, ProviderGemini:
		return true
	}
	return false
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("backend.provider", d.Backend.Provider)
	v.SetDefault("backend.model", d.Backend.Model)
	v.SetDefault("backend.max_tokens", d.Backend.MaxTokens)
	v.SetDefault("backend.aws_region", d.Backend.AWSRegion)
	v.SetDefault("backend.aws_profile", d.Backend.AWSProfile)
	v.SetDefault("backend.request_timeout", "0s")
	v.SetDefault("discovery.pattern", d.Discovery.Pattern)
	v.SetDefault("personas.file", d.Personas.File)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

func bindEnv(v *viper.Viper) {
	// INTERVIEWCREW_BACKEND_PROVIDER overrides backend.provider, and so on.
	v.SetEnvPrefix("INTERVIEWCREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Standard AWS variables feed the Bedrock settings.
	v.BindEnv("backend.aws_region", "INTERVIEWCREW_BACKEND_AWS_REGION", "AWS_REGION")
	v.BindEnv("backend.aws_profile", "INTERVIEWCREW_BACKEND_AWS_PROFILE", "AWS_PROFILE")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in path settings
	cfg.Personas.File = expandEnv(cfg.Personas.File)
	cfg.History.Path = expandEnv(cfg.History.Path)
	cfg.Log.File = expandEnv(cfg.Log.File)

	return cfg, nil
}

// getUserConfigDir returns the XDG config directory for interviewcrew.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "interviewcrew")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "interviewcrew")
	}
	return filepath.Join(home, ".config", "interviewcrew")
}

// findProjectConfig searches for .interviewcrew.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
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
		Backend: BackendConfig{
			Provider:  ProviderAnthropic,
			MaxTokens: 8192,
		},
		Discovery: DiscoveryConfig{
			Pattern: "*.txt",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".interviewcrew", "history.db"),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
