package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.InitData, "offline by default")
	assert.Contains(t, cfg.Edge.PromptsURL, "tg_prompts_list")
	assert.Equal(t, 300, cfg.SearchDebounceMs)
	assert.Equal(t, 30*time.Second, cfg.EdgeTimeout())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Edge.ProfileURL, cfg.Edge.ProfileURL)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"init_data": "query_id=abc",
		"edge": {"timeout": "5s"},
		"search_debounce_ms": 100
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "query_id=abc", cfg.InitData)
	assert.Equal(t, 5*time.Second, cfg.EdgeTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.SearchDebounce())
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PROMPTDECK_INIT_DATA", "query_id=env")
	t.Setenv("PROMPTDECK_ANON_KEY", "env-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "query_id=env", cfg.InitData)
	assert.Equal(t, "env-key", cfg.Edge.AnonKey)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{Edge: EdgeConfig{Timeout: "bogus"}}

	assert.Equal(t, 30*time.Second, cfg.EdgeTimeout())
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce())
	assert.Equal(t, 2600*time.Millisecond, cfg.ToastDuration())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.InitData = "query_id=saved"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "query_id=saved", loaded.InitData)
}
