package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLWithEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := "telegram:\n  token: from-file\n  run_mode: polling\nrate_limit:\n  interval_ms: 500\n  exclude_updates: [\" Callback \"]\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("BOT_API_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, 500, cfg.RateLimit.IntervalMS)
	assert.Equal(t, []string{"callback"}, cfg.RateLimit.ExcludeUpdates)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_API_TOKEN", "123:abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := map[string]Config{
		"missing token": {},
		"bad run mode":  {Telegram: TelegramConfig{Token: "t", RunMode: "push"}},
		"webhook without url": {
			Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook},
		},
		"bad exclusion": {
			Telegram:  TelegramConfig{Token: "t"},
			RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline"}},
		},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := cfg
			assert.Error(t, Normalize(&cfg))
		})
	}
}

func TestLoadDotenvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("UTILBOT_TEST_A=file\nUTILBOT_TEST_B=file\n"), 0o600))

	t.Setenv("UTILBOT_TEST_A", "process")
	t.Setenv("UTILBOT_TEST_B", "")
	require.NoError(t, os.Unsetenv("UTILBOT_TEST_B"))

	require.NoError(t, LoadDotenv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "process", os.Getenv("UTILBOT_TEST_A"))
	assert.Equal(t, "file", os.Getenv("UTILBOT_TEST_B"))
}
