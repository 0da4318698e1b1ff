package app

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/utilbot/app/config"
	"github.com/m3rciful/utilbot/core/bootstrap"
	coreconfig "github.com/m3rciful/utilbot/core/config"
	coretelegram "github.com/m3rciful/utilbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = coreconfig.RunModeLongpoll
	cfg.Weather.BaseURL = config.DefaultWeatherBaseURL
	cfg.Exchange.BaseURL = config.DefaultExchangeBaseURL
	cfg.Animals.CatURL = config.DefaultCatURL
	cfg.Animals.DogURL = config.DefaultDogURL
	cfg.Sender.Workers = 1
	return cfg
}

func offlineBot(cfg *coreconfig.Config) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{Token: cfg.Telegram.Token, Offline: true})
}

func TestTelegramRunOptions(t *testing.T) {
	a := newApp(testConfig(), &bootstrap.Result{})
	a.newBot = offlineBot

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	t.Cleanup(opts.Dispatcher.Close)

	assert.NotNil(t, opts.Bot)
	assert.Len(t, opts.Routes, 2)
	assert.NotEmpty(t, opts.Middlewares)
	assert.NotNil(t, opts.OnStart)

	visible := opts.Registry.ListCommands(true)
	var names []string
	for _, c := range visible {
		names = append(names, c.Text)
	}
	assert.ElementsMatch(t, []string{"start", "help", "weather", "exchange", "cute", "poll"}, names)

	cmd, ok := opts.Registry.LookupCommand("/cancel")
	require.True(t, ok)
	assert.True(t, cmd.Hidden)
}

func TestOnStartServesMetrics(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := testConfig()
	cfg.Metrics.Listen = addr
	a := newApp(cfg, &bootstrap.Result{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.onStart(ctx, coretelegram.Runtime{}))

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func TestOnStartWithoutMetrics(t *testing.T) {
	a := newApp(testConfig(), &bootstrap.Result{})
	assert.NoError(t, a.onStart(context.Background(), coretelegram.Runtime{}))
}

func TestBootstrapRejectsNilConfig(t *testing.T) {
	_, err := Bootstrap(context.Background(), nil)
	assert.Error(t, err)
}
