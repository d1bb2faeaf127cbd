// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrNetworkFailure),
		errors.Is(err, adapter.ErrBadGateway),
		errors.Is(err, adapter.ErrInternalServerError):
		// сервер недоступен или временно сломан, попробуем позже
		return fmt.Errorf("%w: %s", ErrNetworkFailure, extractBody(err))

	case errors.Is(err, adapter.ErrNotFound):
		return store.ErrRecordNotFound

	case errors.Is(err, adapter.ErrConflict):
		return store.ErrVersionConflict

	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrInvalidDataProvided, extractBody(err))
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
