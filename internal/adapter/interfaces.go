// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the budget-keeper server.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteStore]) and a WebSocket change-feed subscriber
// ([NewWebSocketChangeFeed]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401). The one
// structured case is HTTP 409: SetIfVersion decodes the server's conflict
// envelope into a [*VersionConflictError], which still matches [ErrConflict]
// under [errors.Is] but additionally carries the current remote version,
// payload and timestamp the resolver needs.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-budget-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the budget-keeper
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type RemoteStore interface {
	// Get fetches the authoritative copy of a single record. Soft-deleted
	// records are returned with Deleted set rather than hidden. Returns
	// [ErrNotFound] (wrapped) if the server has no such record.
	Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error)

	// List fetches the records of one collection visible to the caller's
	// scope, optionally narrowed by filter. Used for the initial cache fill
	// on a fresh device; the steady-state path is the change feed.
	List(ctx context.Context, collection models.Collection, filter models.RecordFilter) ([]models.Record, error)

	// SetIfVersion pushes one record state guarded by the version contract:
	// the write is accepted only if the server-side version still equals
	// expectedVersion. On success it returns the stored record with the
	// server-confirmed version. On contract violation it returns a
	// [*VersionConflictError] describing the current remote state. Returns
	// [ErrNotFound] (wrapped) if expectedVersion is non-zero and the record
	// does not exist remotely.
	SetIfVersion(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error)

	// Delete removes a record remotely. Deletion is deliberately outside the
	// version contract, so there is no expectedVersion argument; a delete of
	// an already-absent record reports [ErrNotFound], which callers normally
	// treat as success.
	Delete(ctx context.Context, collection models.Collection, recordID string) error

	// Health probes the server's reachability with a cheap unauthenticated
	// request. A nil return means the server answered; any error means it is
	// unreachable or unhealthy. Used by the connectivity probe to flip the
	// engine between online and offline.
	Health(ctx context.Context) error
}

// ChangeFeed delivers committed record changes from the server to the client
// as they happen, so other devices' writes appear without polling.
type ChangeFeed interface {
	// Subscribe opens the change stream and invokes handler for every change
	// received, re-establishing the connection with backoff after transport
	// failures. It blocks until ctx is cancelled and returns ctx.Err().
	Subscribe(ctx context.Context, handler func(models.RemoteChange)) error
}
