package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// EdgeConfig holds the remote catalog service settings. The anon key is a
// public key, safe to ship in the config file.
type EdgeConfig struct {
	ProfileURL  string `json:"profile_url"`
	PromptsURL  string `json:"prompts_url"`
	FavoriteURL string `json:"favorite_url"`
	CopyURL     string `json:"copy_url"`
	AnonKey     string `json:"anon_key"`
	Timeout     string `json:"timeout"`
}

// Config holds all configuration for PromptDeck.
type Config struct {
	// InitData is the Telegram init data string. When empty the app runs
	// fully offline against the demo catalog.
	InitData string `json:"init_data"`

	// Edge function endpoints
	Edge EdgeConfig `json:"edge"`

	// StorePath is the SQLite store location
	StorePath string `json:"store_path"`

	// Logging
	LogFile  string `json:"log_file"`
	LogDebug bool   `json:"log_debug"`

	// SearchDebounceMs is the quiescence delay before a search keystroke
	// recomputes the visible list
	SearchDebounceMs int `json:"search_debounce_ms"`

	// ToastMs is how long transient status messages stay visible
	ToastMs int `json:"toast_ms"`
}

// DefaultConfig returns the built-in defaults, pointing at the production
// edge functions.
func DefaultConfig() *Config {
	return &Config{
		Edge: EdgeConfig{
			ProfileURL:  "https://pfmirzmqncbwjztscwyo.supabase.co/functions/v1/tg_profile",
			PromptsURL:  "https://pfmirzmqncbwjztscwyo.supabase.co/functions/v1/tg_prompts_list",
			FavoriteURL: "https://pfmirzmqncbwjztscwyo.supabase.co/functions/v1/tg_prompt_favorite",
			CopyURL:     "https://pfmirzmqncbwjztscwyo.supabase.co/functions/v1/tg_prompt_copy",
			Timeout:     "30s",
		},
		StorePath:        DefaultStorePath(),
		LogFile:          "",
		SearchDebounceMs: 300,
		ToastMs:          2600,
	}
}

// LoadConfig loads configuration from a file over the defaults. A missing
// file is not an error; a malformed one is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override file values. The init data
// override is the common case: the Telegram host hands it to the process
// environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("PROMPTDECK_INIT_DATA"); v != "" {
		c.InitData = v
	}
	if v := os.Getenv("PROMPTDECK_ANON_KEY"); v != "" {
		c.Edge.AnonKey = v
	}
	if v := os.Getenv("PROMPTDECK_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("PROMPTDECK_LOG_FILE"); v != "" {
		c.LogFile = v
	}
}

// EdgeTimeout parses the configured edge timeout, defaulting to 30s.
func (c *Config) EdgeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Edge.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SearchDebounce returns the search debounce interval.
func (c *Config) SearchDebounce() time.Duration {
	if c.SearchDebounceMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// ToastDuration returns how long transient messages stay visible.
func (c *Config) ToastDuration() time.Duration {
	if c.ToastMs <= 0 {
		return 2600 * time.Millisecond
	}
	return time.Duration(c.ToastMs) * time.Millisecond
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "promptdeck", "config.json")
}

// DefaultStorePath returns the default store database path.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "promptdeck", "store.db")
}

// SaveConfig saves the configuration to a file.
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
