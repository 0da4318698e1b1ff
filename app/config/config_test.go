package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("BOT_API_TOKEN", "123:abc")
	t.Setenv("WEATHER_API_KEY", " owm-key ")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
	assert.Equal(t, "owm-key", cfg.Weather.APIKey)
	assert.Equal(t, DefaultWeatherBaseURL, cfg.Weather.BaseURL)
	assert.Equal(t, DefaultExchangeBaseURL, cfg.Exchange.BaseURL)
	assert.Equal(t, DefaultCatURL, cfg.Animals.CatURL)
	assert.Equal(t, DefaultDogURL, cfg.Animals.DogURL)
	assert.False(t, cfg.Database.Enabled)
	assert.Zero(t, cfg.UpstreamTimeout())
}

func TestLoadYAMLSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
telegram:
  token: file-token
  run_mode: longpoll
weather:
  base_url: http://weather.local/
exchange:
  access_key: xkey
upstream:
  timeout_seconds: 7
database:
  enabled: true
  host: db
  name: utilbot
metrics:
  listen: ":9100"
sender:
  workers: 2
  retry_backoff_ms: 250
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	unsetEnv(t, "BOT_API_TOKEN")
	t.Setenv("EXCHANGE_BASE_URL", "http://fx.local")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "http://weather.local", cfg.Weather.BaseURL)
	assert.Equal(t, "http://fx.local", cfg.Exchange.BaseURL)
	assert.Equal(t, "xkey", cfg.Exchange.AccessKey)
	assert.Equal(t, 7*time.Second, cfg.UpstreamTimeout())
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, ":9100", cfg.Metrics.Listen)

	opts := cfg.Sender.Options()
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, 250*time.Millisecond, opts.RetryBackoff)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no token":         "weather:\n  api_key: k\n",
		"relative url":     "telegram:\n  token: t\nanimals:\n  dog_url: woof.json\n",
		"negative timeout": "telegram:\n  token: t\nupstream:\n  timeout_seconds: -1\n",
		"db without host":  "telegram:\n  token: t\ndatabase:\n  enabled: true\n",
		"negative sender":  "telegram:\n  token: t\nsender:\n  workers: -2\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			unsetEnv(t, "BOT_API_TOKEN")
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
