package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidRecordID        = errors.New("invalid record id")
	ErrInvalidScopeID         = errors.New("invalid scope id")
	ErrUnknownCollection      = errors.New("unknown collection")
	ErrEmptyPayload           = errors.New("payload is required")
	ErrInvalidVersion         = errors.New("invalid Version")
	ErrInvalidExpectedVersion = errors.New("invalid Expected Version")
	ErrInvalidDateRange       = errors.New("date range starts after it ends")
)
