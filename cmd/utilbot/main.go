package main

import (
	"context"
	"log"

	"github.com/m3rciful/utilbot/app"
	"github.com/m3rciful/utilbot/app/config"
	corecmd "github.com/m3rciful/utilbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(context.Background(), cfg.(*config.AppConfig))
		},
	})
	if err != nil {
		log.Fatalf("utilbot: %v", err)
	}
}
