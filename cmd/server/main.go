package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/handler"
	"github.com/MKhiriev/go-budget-keeper/internal/hub"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/server"
	"github.com/MKhiriev/go-budget-keeper/internal/service"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/internal/workers"
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

	log := logger.NewLogger("budget-server")

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, log)

	changeHub := hub.NewHub(log)
	defer changeHub.Stop()
	workers.NewWorkers(changeHub).Run()

	handlers, err := handler.NewHandlers(services, changeHub, *cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(buildInfo models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", buildInfo.BuildVersion())
	fmt.Printf("Build date: %s\n", buildInfo.BuildDate())
	fmt.Printf("Build commit: %s\n", buildInfo.BuildCommit())
}
