// Package config holds the utilbot configuration: the shared core settings
// plus upstream API endpoints, credentials, storage and metrics options.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/utilbot/core/config"
	coredatabase "github.com/m3rciful/utilbot/core/database"
	tgsender "github.com/m3rciful/utilbot/core/telegram/sender"
)

const (
	DefaultWeatherBaseURL  = "https://api.openweathermap.org"
	DefaultExchangeBaseURL = "https://api.exchangerate.host"
	DefaultCatURL          = "https://cataas.com/cat/cute"
	DefaultDogURL          = "https://random.dog/woof.json"
)

// WeatherConfig configures the OpenWeatherMap current weather API.
type WeatherConfig struct {
	APIKey  string `yaml:"api_key" envconfig:"WEATHER_API_KEY"`
	BaseURL string `yaml:"base_url" envconfig:"WEATHER_BASE_URL"`
}

// ExchangeConfig configures the exchangerate.host convert API.
type ExchangeConfig struct {
	BaseURL   string `yaml:"base_url" envconfig:"EXCHANGE_BASE_URL"`
	AccessKey string `yaml:"access_key" envconfig:"EXCHANGE_ACCESS_KEY"`
}

// AnimalsConfig configures the cute animal image sources.
type AnimalsConfig struct {
	CatURL string `yaml:"cat_url" envconfig:"CAT_URL"`
	DogURL string `yaml:"dog_url" envconfig:"DOG_URL"`
}

// UpstreamConfig tunes the HTTP client shared by the API adapters.
type UpstreamConfig struct {
	// TimeoutSeconds caps one upstream request; 0 keeps the client default.
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"UPSTREAM_TIMEOUT_SECONDS"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// SenderConfig sizes the outbound Telegram dispatcher.
type SenderConfig struct {
	Workers        int `yaml:"workers" envconfig:"SENDER_WORKERS"`
	QueueSize      int `yaml:"queue_size" envconfig:"SENDER_QUEUE_SIZE"`
	MaxRetries     int `yaml:"max_retries" envconfig:"SENDER_MAX_RETRIES"`
	RetryBackoffMS int `yaml:"retry_backoff_ms" envconfig:"SENDER_RETRY_BACKOFF_MS"`
}

// Options converts the section into dispatcher options.
func (s SenderConfig) Options() tgsender.Options {
	return tgsender.Options{
		Workers:      s.Workers,
		QueueSize:    s.QueueSize,
		MaxRetries:   s.MaxRetries,
		RetryBackoff: time.Duration(s.RetryBackoffMS) * time.Millisecond,
	}
}

// AppConfig is the full utilbot configuration.
type AppConfig struct {
	coreconfig.Config `yaml:",inline"`

	Weather  WeatherConfig       `yaml:"weather"`
	Exchange ExchangeConfig      `yaml:"exchange"`
	Animals  AnimalsConfig       `yaml:"animals"`
	Upstream UpstreamConfig      `yaml:"upstream"`
	Database coredatabase.Config `yaml:"database"`
	Metrics  MetricsConfig       `yaml:"metrics"`
	Sender   SenderConfig        `yaml:"sender"`
}

// CoreConfig exposes the embedded core configuration.
func (c *AppConfig) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// UpstreamTimeout returns the per-request timeout, zero meaning client default.
func (c *AppConfig) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// Load reads YAML from path (optional) overlaid with environment variables and validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := coreconfig.LoadInto(path, cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() error {
	c.Weather.APIKey = strings.TrimSpace(c.Weather.APIKey)
	c.Exchange.AccessKey = strings.TrimSpace(c.Exchange.AccessKey)

	urls := []struct {
		name string
		val  *string
		def  string
	}{
		{"weather.base_url", &c.Weather.BaseURL, DefaultWeatherBaseURL},
		{"exchange.base_url", &c.Exchange.BaseURL, DefaultExchangeBaseURL},
		{"animals.cat_url", &c.Animals.CatURL, DefaultCatURL},
		{"animals.dog_url", &c.Animals.DogURL, DefaultDogURL},
	}
	for _, u := range urls {
		v := strings.TrimRight(strings.TrimSpace(*u.val), "/")
		if v == "" {
			v = u.def
		}
		parsed, err := url.Parse(v)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", u.name, *u.val)
		}
		*u.val = v
	}

	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must be >= 0")
	}
	if c.Sender.Workers < 0 || c.Sender.QueueSize < 0 || c.Sender.MaxRetries < 0 || c.Sender.RetryBackoffMS < 0 {
		return fmt.Errorf("sender settings must be >= 0")
	}
	if c.Database.Enabled && (strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "") {
		return fmt.Errorf("database.host and database.name are required when database.enabled is true")
	}
	if c.Database.Enabled && c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	return nil
}
