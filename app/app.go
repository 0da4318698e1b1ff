// Package app wires the utilbot components into a runnable Telegram bot.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/utilbot/app/config"
	"github.com/m3rciful/utilbot/app/flow"
	"github.com/m3rciful/utilbot/app/gateway"
	"github.com/m3rciful/utilbot/app/journal"
	"github.com/m3rciful/utilbot/app/upstream"
	"github.com/m3rciful/utilbot/core/bootstrap"
	coreconfig "github.com/m3rciful/utilbot/core/config"
	"github.com/m3rciful/utilbot/core/logger"
	"github.com/m3rciful/utilbot/core/metrics"
	coretelegram "github.com/m3rciful/utilbot/core/telegram"
	"github.com/m3rciful/utilbot/core/telegram/router"
	tgsender "github.com/m3rciful/utilbot/core/telegram/sender"
	"github.com/m3rciful/utilbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

const component = "app"

// App holds the bootstrapped infrastructure of the bot.
type App struct {
	cfg   *config.AppConfig
	infra *bootstrap.Result

	newBot func(*coreconfig.Config) (*tele.Bot, error)
	store  state.Store
}

// Bootstrap initializes logging and, when enabled, the journal database.
func Bootstrap(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config provided")
	}
	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Migrations: bootstrap.Migrations{
			FS:  journal.Migrations,
			Dir: journal.MigrationsDir,
		},
	})
	if err != nil {
		return nil, err
	}
	if cfg.Weather.APIKey == "" {
		logger.Warn(ctx, component, "config.weather_key_missing")
	}
	return newApp(cfg, infra), nil
}

func newApp(cfg *config.AppConfig, infra *bootstrap.Result) *App {
	return &App{
		cfg:    cfg,
		infra:  infra,
		newBot: coretelegram.NewBot,
		store:  state.NewMemoryStore(),
	}
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.infra.Close()
}

// TelegramRunOptions builds the bot, the conversation handler and the
// runtime hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	bot, err := a.newBot(core)
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	dispatcher := tgsender.NewDispatcher(a.cfg.Sender.Options())
	handler, err := a.flowBot(gateway.New(bot, dispatcher))
	if err != nil {
		dispatcher.Close()
		return coretelegram.RunOptions{}, err
	}

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    a.registry(),
		Bot:         bot,
		Dispatcher:  dispatcher,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes: router.TextRoutes(func(ctx context.Context, in router.Inbound) error {
			return handler.Handle(ctx, flow.Message{
				UserID: in.UserID,
				ChatID: in.ChatID,
				Text:   in.Text,
				Media:  in.Media,
			})
		}),
		OnStart: a.onStart,
	}, nil
}

func (a *App) flowBot(gw flow.Gateway) (*flow.Bot, error) {
	// adapters never retry; the Telegram client keeps its own retry transport
	client := upstream.NewClient(coretelegram.BuildHTTPClient(coretelegram.ClientOptions{
		DisableRetry: true,
		Timeout:      a.cfg.UpstreamTimeout(),
	}))

	var rec flow.Recorder = journal.Noop{}
	if a.infra != nil && a.infra.DB != nil {
		rec = journal.NewStore(a.infra.DB)
	}

	catBase := a.cfg.Animals.CatURL
	return flow.New(flow.Options{
		Store:    a.store,
		Gateway:  gw,
		Weather:  upstream.NewWeatherClient(client, a.cfg.Weather.BaseURL, a.cfg.Weather.APIKey),
		Exchange: upstream.NewExchangeClient(client, a.cfg.Exchange.BaseURL, a.cfg.Exchange.AccessKey),
		Dogs:     upstream.NewDogClient(client, a.cfg.Animals.DogURL),
		CatURL: func(now time.Time) string {
			return upstream.CatURL(catBase, now)
		},
		Journal: rec,
	})
}

func (a *App) registry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()
	for _, c := range flow.Commands() {
		reg.RegisterCommand(c.Name, coretelegram.Command{Description: c.Description, Hidden: c.Hidden})
	}
	return reg
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	addr := a.cfg.Metrics.Listen
	if addr == "" {
		return nil
	}
	go func() {
		if err := metrics.Serve(ctx, addr); err != nil {
			logger.Error(ctx, "metrics", "metrics.serve",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}
