package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-budget-keeper/models"
)

func validClientConfig() *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			ServerAddress:  "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
			Token:          "bearer_token",
		},
		Storage: ClientStorage{
			Cache: ClientCache{Path: "/var/data/budget.db"},
		},
		Sync: ClientSync{
			ScopeID:         "household-1",
			Interval:        time.Minute,
			RetryLimit:      5,
			Strategy:        models.StrategyManual,
			EventBufferSize: 64,
		},
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ClientConfig)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *ClientConfig) {},
			wantErr: nil,
		},
		{
			name:    "empty cache path",
			mutate:  func(cfg *ClientConfig) { cfg.Storage.Cache.Path = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "in-memory cache path rejected",
			mutate:  func(cfg *ClientConfig) { cfg.Storage.Cache.Path = "file::memory:" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing server address",
			mutate:  func(cfg *ClientConfig) { cfg.Adapter.ServerAddress = "" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "zero request timeout",
			mutate:  func(cfg *ClientConfig) { cfg.Adapter.RequestTimeout = 0 },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "missing token",
			mutate:  func(cfg *ClientConfig) { cfg.Adapter.Token = "" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "missing scope id",
			mutate:  func(cfg *ClientConfig) { cfg.Sync.ScopeID = "" },
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name:    "unknown strategy",
			mutate:  func(cfg *ClientConfig) { cfg.Sync.Strategy = "newest_wins" },
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name:    "zero retry limit",
			mutate:  func(cfg *ClientConfig) { cfg.Sync.RetryLimit = 0 },
			wantErr: ErrInvalidSyncConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigValidate(t *testing.T) {
	valid := func() *ServerConfig {
		return &ServerConfig{
			Auth: ServerAuth{TokenSignKey: "secret", TokenIssuer: "issuer"},
			DB:   ServerDB{DSN: "postgres://localhost/budget"},
			HTTP: ServerHTTP{Address: "localhost:8080", RequestTimeout: 30 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *ServerConfig)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *ServerConfig) {},
			wantErr: nil,
		},
		{
			name:    "empty DSN",
			mutate:  func(cfg *ServerConfig) { cfg.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "empty listen address",
			mutate:  func(cfg *ServerConfig) { cfg.HTTP.Address = "" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "missing sign key",
			mutate:  func(cfg *ServerConfig) { cfg.Auth.TokenSignKey = "" },
			wantErr: ErrInvalidAuthConfigs,
		},
		{
			name:    "missing issuer",
			mutate:  func(cfg *ServerConfig) { cfg.Auth.TokenIssuer = "" },
			wantErr: ErrInvalidAuthConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
