// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The merged config legitimately carries only the client half or only the
// server half, so cross-field requirements are enforced by the role views
// ([ClientConfig.validate], [ServerConfig.validate]), not here.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Cache.Path == "" || strings.Contains(cfg.Storage.Cache.Path, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.ServerAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.Token == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.ScopeID == "" || !cfg.Sync.Strategy.IsValid() || cfg.Sync.RetryLimit < 1 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.HTTP.Address == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Auth.TokenSignKey == "" || cfg.Auth.TokenIssuer == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
