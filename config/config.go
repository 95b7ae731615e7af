// Package config provides configuration parsing for the xytu-function plugin.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default trigger settings used when the configured lists are empty.
var (
	DefaultWakeWord           = "XYTU"
	DefaultStatusTriggerWords = []string{"状态", "status"}
	DefaultLikeTriggerWords   = []string{"赞我", "zanwo"}
	DefaultLikePlatforms      = []string{"aiocqhttp"}
)

// Config represents the plugin configuration as supplied by the host.
type Config struct {
	// StatusEnabled turns the status reply on.
	StatusEnabled bool `yaml:"status_enabled"`
	// LikeEnabled turns the like action on.
	LikeEnabled bool `yaml:"like_enabled"`

	// WakeWord holds one or more activation phrases. In YAML it may be
	// written as a single string or as a list.
	WakeWord Phrases `yaml:"wake_word"`

	// StatusTriggerWords fire the status reply when they follow the wake word.
	StatusTriggerWords []string `yaml:"status_trigger_words"`
	// LikeTriggerWords fire the like action when they follow the wake word.
	LikeTriggerWords []string `yaml:"like_trigger_words"`

	// Like holds like action settings.
	Like LikeConfig `yaml:"like"`

	// OneBot holds the OneBot v11 action endpoint used by the like action.
	OneBot OneBotConfig `yaml:"onebot"`

	// SysInfo holds system information probe settings.
	SysInfo SysInfoConfig `yaml:"sysinfo"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`
}

// LikeConfig holds like action settings.
type LikeConfig struct {
	// Platforms lists the platform identifiers that expose the like API.
	Platforms []string `yaml:"platforms"`
}

// OneBotConfig holds the OneBot v11 action endpoint settings.
type OneBotConfig struct {
	// Transport is "ws" (forward WebSocket) or "http".
	Transport string `yaml:"transport"`
	// Endpoint is the WebSocket URL or HTTP base URL. Empty disables the client.
	Endpoint string `yaml:"endpoint"`
	// AccessToken is sent as a bearer token when non-empty.
	AccessToken string `yaml:"access_token"`
	// Timeout is a duration string (e.g. "5s") applied to each action call.
	Timeout string `yaml:"timeout"`
}

// SysInfoConfig holds system information probe settings.
type SysInfoConfig struct {
	// CommandTimeout is a duration string bounding each external command.
	CommandTimeout string `yaml:"command_timeout"`
	// LoadCacheTTL is a duration string; CPU load samples younger than this
	// are returned from cache.
	LoadCacheTTL string `yaml:"load_cache_ttl"`
	// LoadBaseline is a duration string; the first CPU load read blocks this
	// long to establish a baseline.
	LoadBaseline string `yaml:"load_baseline"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File is an optional log file path. Empty logs to stderr.
	File string `yaml:"file"`
}

// Phrases is a list of activation phrases that also accepts a single YAML
// scalar.
type Phrases []string

// UnmarshalYAML accepts either a scalar string or a sequence of strings.
func (p *Phrases) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*p = Phrases{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = Phrases(list)
		return nil
	default:
		return fmt.Errorf("wake_word must be a string or a list of strings")
	}
}

// DefaultConfig returns a Config populated with sensible defaults.
// Both features start disabled, as a freshly installed plugin should be quiet.
func DefaultConfig() *Config {
	return &Config{
		StatusEnabled:      false,
		LikeEnabled:        false,
		WakeWord:           Phrases{DefaultWakeWord},
		StatusTriggerWords: append([]string(nil), DefaultStatusTriggerWords...),
		LikeTriggerWords:   append([]string(nil), DefaultLikeTriggerWords...),
		Like: LikeConfig{
			Platforms: append([]string(nil), DefaultLikePlatforms...),
		},
		OneBot: OneBotConfig{
			Transport: "ws",
			Timeout:   "5s",
		},
		SysInfo: SysInfoConfig{
			CommandTimeout: "3s",
			LoadCacheTTL:   "1s",
			LoadBaseline:   "500ms",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		applyEnvOverrides(config)
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnvOverrides(config)
	return config, nil
}

// Validate checks the configuration for logical consistency.
func (c *Config) Validate() error {
	switch c.OneBot.Transport {
	case "", "ws", "http":
	default:
		return fmt.Errorf("onebot.transport must be 'ws' or 'http', got %q", c.OneBot.Transport)
	}

	durations := map[string]string{
		"onebot.timeout":          c.OneBot.Timeout,
		"sysinfo.command_timeout": c.SysInfo.CommandTimeout,
		"sysinfo.load_cache_ttl":  c.SysInfo.LoadCacheTTL,
		"sysinfo.load_baseline":   c.SysInfo.LoadBaseline,
	}
	for key, value := range durations {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", key, value)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// WakeWords returns the configured activation phrases with blanks removed,
// falling back to DefaultWakeWord.
func (c *Config) WakeWords() []string {
	words := nonBlank(c.WakeWord)
	if len(words) == 0 {
		return []string{DefaultWakeWord}
	}
	return words
}

// StatusTriggers returns the status trigger words or the defaults when the
// configured list is empty.
func (c *Config) StatusTriggers() []string {
	words := nonBlank(c.StatusTriggerWords)
	if len(words) == 0 {
		return append([]string(nil), DefaultStatusTriggerWords...)
	}
	return words
}

// LikeTriggers returns the like trigger words or the defaults when the
// configured list is empty.
func (c *Config) LikeTriggers() []string {
	words := nonBlank(c.LikeTriggerWords)
	if len(words) == 0 {
		return append([]string(nil), DefaultLikeTriggerWords...)
	}
	return words
}

// LikePlatforms returns the platforms that support the like action.
func (c *Config) LikePlatforms() []string {
	platforms := nonBlank(c.Like.Platforms)
	if len(platforms) == 0 {
		return append([]string(nil), DefaultLikePlatforms...)
	}
	return platforms
}

// Duration parses a duration string, returning fallback when the value is
// empty or invalid.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// applyEnvOverrides checks environment variables and overrides config values.
// Direct env vars take precedence over _FILE variants.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("XYTU_ONEBOT_ENDPOINT"); v != "" {
		cfg.OneBot.Endpoint = v
	}
	if v := os.Getenv("XYTU_ONEBOT_TOKEN"); v != "" {
		cfg.OneBot.AccessToken = v
	} else if v := readEnvFile("XYTU_ONEBOT_TOKEN_FILE"); v != "" {
		cfg.OneBot.AccessToken = v
	}
}

// readEnvFile reads the content of a file whose path is given by an
// environment variable. Returns empty string if the env var is unset or the
// file can't be read.
func readEnvFile(envVar string) string {
	path := os.Getenv(envVar)
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\r\n")
}
