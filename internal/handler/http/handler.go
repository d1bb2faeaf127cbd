package http

import (
	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/hub"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/service"
	"github.com/MKhiriev/go-budget-keeper/models"
)

type Handler struct {
	services  *service.Services
	hub       *hub.Hub
	authCfg   config.ServerAuth
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(services *service.Services, changeHub *hub.Hub, authCfg config.ServerAuth, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		hub:       changeHub,
		authCfg:   authCfg,
		buildInfo: buildInfo,
		logger:    logger,
	}
}
