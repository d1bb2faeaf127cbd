package config

import (
	"fmt"
	"time"
)

// ServerAuth holds the token validation settings for the server.
type ServerAuth struct {
	// TokenSignKey verifies bearer token signatures.
	TokenSignKey string
	// TokenIssuer is the expected "iss" claim.
	TokenIssuer string
}

// ServerDB holds the server database settings.
type ServerDB struct {
	// DSN is the Postgres connection string.
	DSN string
}

// ServerHTTP holds the inbound transport settings.
type ServerHTTP struct {
	// Address is the listen address in host:port form.
	Address string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// Auth contains token validation settings.
	Auth ServerAuth
	// DB contains database settings.
	DB ServerDB
	// HTTP contains inbound transport settings.
	HTTP ServerHTTP
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		Auth: ServerAuth{
			TokenSignKey: cfg.Auth.TokenSignKey,
			TokenIssuer:  cfg.Auth.TokenIssuer,
		},
		DB: ServerDB{
			DSN: cfg.Storage.DB.DSN,
		},
		HTTP: ServerHTTP{
			Address:        cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	}

	return serverCfg, serverCfg.validate()
}
