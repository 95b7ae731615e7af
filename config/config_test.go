package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StatusEnabled {
		t.Error("expected status to be disabled by default")
	}
	if cfg.LikeEnabled {
		t.Error("expected like to be disabled by default")
	}
	if !reflect.DeepEqual([]string(cfg.WakeWord), []string{"XYTU"}) {
		t.Errorf("expected WakeWord=[XYTU], got %v", cfg.WakeWord)
	}
	if !reflect.DeepEqual(cfg.StatusTriggerWords, []string{"状态", "status"}) {
		t.Errorf("unexpected StatusTriggerWords: %v", cfg.StatusTriggerWords)
	}
	if !reflect.DeepEqual(cfg.LikeTriggerWords, []string{"赞我", "zanwo"}) {
		t.Errorf("unexpected LikeTriggerWords: %v", cfg.LikeTriggerWords)
	}
	if cfg.OneBot.Transport != "ws" {
		t.Errorf("expected OneBot transport=ws, got %s", cfg.OneBot.Transport)
	}
	if cfg.OneBot.Endpoint != "" {
		t.Errorf("expected empty OneBot endpoint, got %s", cfg.OneBot.Endpoint)
	}
	if cfg.SysInfo.LoadCacheTTL != "1s" {
		t.Errorf("expected LoadCacheTTL=1s, got %s", cfg.SysInfo.LoadCacheTTL)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got error: %v", err)
	}
}

func TestDefaultListsAreCopies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StatusTriggerWords[0] = "changed"
	if DefaultStatusTriggerWords[0] != "状态" {
		t.Fatal("DefaultConfig must not alias the package defaults")
	}
}

func TestLoadConfigNonExistent(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}
	if cfg.SysInfo.CommandTimeout != "3s" {
		t.Errorf("expected default CommandTimeout=3s, got %s", cfg.SysInfo.CommandTimeout)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error for empty path: %v", err)
	}
	if cfg.WakeWords()[0] != "XYTU" {
		t.Errorf("expected default wake word, got %v", cfg.WakeWords())
	}
}

func TestLoadConfigWakeWordForms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "scalar",
			content: "wake_word: BOT\n",
			want:    []string{"BOT"},
		},
		{
			name:    "sequence",
			content: "wake_word: [XYTU, xytu]\n",
			want:    []string{"XYTU", "xytu"},
		},
		{
			name:    "omitted keeps default",
			content: "status_enabled: true\n",
			want:    []string{"XYTU"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if got := cfg.WakeWords(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WakeWords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigWakeWordInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("wake_word:\n  a: b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for mapping wake_word")
	}
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	content := `status_enabled: true
like_trigger_words: []
onebot:
  endpoint: ws://127.0.0.1:3001
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.StatusEnabled {
		t.Error("expected status enabled from file")
	}
	if cfg.LikeEnabled {
		t.Error("expected like to keep its default")
	}
	if cfg.OneBot.Endpoint != "ws://127.0.0.1:3001" {
		t.Errorf("unexpected endpoint %q", cfg.OneBot.Endpoint)
	}
	if cfg.OneBot.Transport != "ws" {
		t.Errorf("expected transport default to survive, got %q", cfg.OneBot.Transport)
	}
	if got := cfg.LikeTriggers(); !reflect.DeepEqual(got, DefaultLikeTriggerWords) {
		t.Errorf("empty like_trigger_words should fall back to defaults, got %v", got)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("status_enabled: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"http transport", func(c *Config) { c.OneBot.Transport = "http" }, false},
		{"bad transport", func(c *Config) { c.OneBot.Transport = "grpc" }, true},
		{"bad duration", func(c *Config) { c.SysInfo.CommandTimeout = "soon" }, true},
		{"negative duration", func(c *Config) { c.SysInfo.LoadCacheTTL = "-1s" }, true},
		{"empty duration", func(c *Config) { c.OneBot.Timeout = "" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTriggerFallbacks(t *testing.T) {
	cfg := &Config{
		WakeWord:           Phrases{"", "  "},
		StatusTriggerWords: []string{" "},
	}
	if got := cfg.WakeWords(); !reflect.DeepEqual(got, []string{"XYTU"}) {
		t.Errorf("WakeWords() = %v", got)
	}
	if got := cfg.StatusTriggers(); !reflect.DeepEqual(got, DefaultStatusTriggerWords) {
		t.Errorf("StatusTriggers() = %v", got)
	}
	if got := cfg.LikeTriggers(); !reflect.DeepEqual(got, DefaultLikeTriggerWords) {
		t.Errorf("LikeTriggers() = %v", got)
	}
	if got := cfg.LikePlatforms(); !reflect.DeepEqual(got, DefaultLikePlatforms) {
		t.Errorf("LikePlatforms() = %v", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{"", time.Second, time.Second},
		{"250ms", time.Second, 250 * time.Millisecond},
		{"garbage", 2 * time.Second, 2 * time.Second},
		{"-5s", time.Second, time.Second},
	}
	for _, tt := range tests {
		if got := Duration(tt.value, tt.fallback); got != tt.want {
			t.Errorf("Duration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XYTU_ONEBOT_ENDPOINT", "http://127.0.0.1:5700")
	t.Setenv("XYTU_ONEBOT_TOKEN", "")
	t.Setenv("XYTU_ONEBOT_TOKEN_FILE", tokenFile)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OneBot.Endpoint != "http://127.0.0.1:5700" {
		t.Errorf("endpoint = %q", cfg.OneBot.Endpoint)
	}
	if cfg.OneBot.AccessToken != "from-file" {
		t.Errorf("token = %q, want from-file", cfg.OneBot.AccessToken)
	}

	t.Setenv("XYTU_ONEBOT_TOKEN", "direct")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OneBot.AccessToken != "direct" {
		t.Errorf("direct env var should win, got %q", cfg.OneBot.AccessToken)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.StatusEnabled = true
	cfg.WakeWord = Phrases{"A", "B"}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !loaded.StatusEnabled {
		t.Error("StatusEnabled lost in round trip")
	}
	if !reflect.DeepEqual(loaded.WakeWords(), []string{"A", "B"}) {
		t.Errorf("WakeWords lost in round trip: %v", loaded.WakeWords())
	}
}
