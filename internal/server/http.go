package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
)

type httpServer struct {
	server *http.Server
}

func newHTTPServer(router http.Handler, cfg config.ServerConfig, logger *logger.Logger) *httpServer {
	logger.Info().Str("address", cfg.HTTP.Address).Msg("creating HTTP server")

	return &httpServer{
		server: &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: router,
			// the change feed endpoint holds connections open indefinitely,
			// so only the header read is bounded here
			ReadHeaderTimeout: cfg.HTTP.RequestTimeout,
		},
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil {
		fmt.Printf("HTTP server ListenAndServe: %v\n", err)
	}
}

func (h *httpServer) Shutdown() {
	if err := h.server.Shutdown(context.Background()); h.server != nil && err != nil {
		// ошибки закрытия Listener
		fmt.Printf("HTTP server Shutdown: %v\n", err)
	}
}
