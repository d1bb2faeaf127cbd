package config

import "errors"

// Validation errors returned by the role-specific validate methods when
// required configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address, token, or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty cache path, unsupported in-memory cache path,
	// or empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid sync engine settings
	// (for example, missing scope id or unknown conflict strategy).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidServerConfigs indicates invalid server transport settings
	// (for example, missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAuthConfigs indicates invalid token validation settings
	// (for example, missing sign key or issuer).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
