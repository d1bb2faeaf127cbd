package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrNetworkFailure           = errors.New("remote store unreachable")
	ErrManualResolutionRequired = errors.New("manual conflict resolution required")
	ErrRetryLimitExceeded       = errors.New("retry limit exceeded")
)
