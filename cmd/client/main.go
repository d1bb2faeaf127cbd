package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/client"
	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/service"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/MKhiriev/go-budget-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetClientConfig()
	if err != nil {
		// конфиг нужен раньше логгера: путь к файлу лога задаётся в нём
		panic(fmt.Sprintf("error getting configs: %v", err))
	}

	log := logger.NewClientLogger("budget-client", cfg.Log.FilePath)
	log.Debug().Any("config", cfg).Msg("received configs")

	if cfg.Sync.ScopeID == "" {
		scopeID, err := utils.ParseScopeFromJWT(cfg.Adapter.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("error deriving scope from token")
		}
		cfg.Sync.ScopeID = scopeID
		log.Info().Str("scope_id", scopeID).Msg("scope derived from token")
	}

	ctx := context.Background()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating remote store adapter")
	}

	feed, err := adapter.NewWebSocketChangeFeed(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating change feed")
	}

	services := service.NewClientServices(storages, remote, feed, cfg.Sync, log)

	app := client.NewApp(services, log)
	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo(buildInfo models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", buildInfo.BuildVersion())
	fmt.Printf("Build date: %s\n", buildInfo.BuildDate())
	fmt.Printf("Build commit: %s\n", buildInfo.BuildCommit())
}
