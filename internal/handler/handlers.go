package handler

import (
	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/handler/http"
	"github.com/MKhiriev/go-budget-keeper/internal/hub"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/service"
	"github.com/MKhiriev/go-budget-keeper/models"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, changeHub *hub.Hub, cfg config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTP.Address != "" {
		handlers.HTTP = http.NewHandler(services, changeHub, cfg.Auth, buildInfo, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
