package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-budget-keeper/models"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// ServerAddress is the remote store base URL used by the client.
	ServerAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Token is the pre-issued bearer token presented on every request.
	Token string
}

// ClientCache contains local durable cache settings for the client.
type ClientCache struct {
	// Path is the SQLite database file path.
	Path string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Cache holds local cache settings.
	Cache ClientCache
}

// ClientSync contains sync engine settings.
type ClientSync struct {
	// ScopeID is the owner scope this device synchronizes.
	ScopeID string
	// Interval defines how often the background sync job runs.
	// Zero selects the job's built-in default.
	Interval time.Duration
	// RetryLimit is the retry ceiling per queued change.
	RetryLimit int
	// Strategy is the configured conflict resolution strategy.
	Strategy models.ConflictStrategy
	// EventBufferSize bounds the engine's event replay ring.
	EventBufferSize int
}

// ClientLog contains client logging settings.
type ClientLog struct {
	// FilePath is the rotated log file location; empty places it next to
	// the executable.
	FilePath string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains sync engine settings.
	Sync ClientSync
	// Log contains logging settings.
	Log ClientLog
}

// Built-in defaults applied by GetClientConfig when the merged configuration
// leaves the corresponding field zero.
const (
	defaultRetryLimit      = 5
	defaultEventBufferSize = 64
)

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, normalizes defaults (manual conflict
// strategy, retry ceiling, event ring size), and validates the resulting
// [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	strategy := models.ConflictStrategy(cfg.Sync.Strategy)
	if strategy == "" {
		strategy = models.StrategyManual
	}

	retryLimit := cfg.Sync.RetryLimit
	if retryLimit == 0 {
		retryLimit = defaultRetryLimit
	}

	eventBufferSize := cfg.Sync.EventBufferSize
	if eventBufferSize == 0 {
		eventBufferSize = defaultEventBufferSize
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			ServerAddress:  cfg.Adapter.ServerAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Token:          cfg.Adapter.Token,
		},
		Storage: ClientStorage{
			Cache: ClientCache{
				Path: cfg.Storage.Cache.Path,
			},
		},
		Sync: ClientSync{
			ScopeID:         cfg.Sync.ScopeID,
			Interval:        cfg.Sync.Interval,
			RetryLimit:      retryLimit,
			Strategy:        strategy,
			EventBufferSize: eventBufferSize,
		},
		Log: ClientLog{
			FilePath: cfg.Log.ClientFilePath,
		},
	}

	return clientCfg, clientCfg.validate()
}
