package adapter

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("record not found on server")
	ErrConflict            = errors.New("version conflict on server")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	ErrNetworkFailure      = errors.New("server unreachable")
)

// VersionConflictError is returned by [RemoteStore.SetIfVersion] when the
// server rejects a write because expectedVersion no longer matches. It carries
// the current remote state decoded from the 409 response body so the caller
// can run conflict resolution without a second round trip.
//
// It matches [ErrConflict] under [errors.Is].
type VersionConflictError struct {
	CurrentVersion   int64
	CurrentPayload   map[string]any
	CurrentUpdatedAt time.Time
	Deleted          bool
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%v: remote version is %d", ErrConflict, e.CurrentVersion)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrConflict
}
