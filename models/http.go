package models

import "time"

// WriteRequest is the body of a versioned write against the remote store.
// The owner scope is taken from the caller's token, never from the body.
type WriteRequest struct {
	// Payload is the full record body to store.
	Payload map[string]any `json:"payload"`

	// ExpectedVersion is the version the caller believes is current.
	// Zero means the caller is creating the record.
	ExpectedVersion int64 `json:"expected_version"`

	// UpdatedAt is the client-side modification time, kept verbatim so
	// timestamp-based conflict strategies see the original wall clock.
	//
	// Deletes never travel through this body: they use the unversioned
	// DELETE endpoint, and an accepted write always stores a live record.
	UpdatedAt time.Time `json:"updated_at"`
}

// WriteConflictResponse is returned with HTTP 409 when a versioned write is
// rejected. It carries the current remote state so the client can run
// conflict resolution without a second round trip.
type WriteConflictResponse struct {
	// CurrentVersion is the version stored remotely right now.
	CurrentVersion int64 `json:"current_version"`

	// CurrentPayload is the payload stored remotely right now.
	CurrentPayload map[string]any `json:"current_payload"`

	// CurrentUpdatedAt is the remote record's last modification time.
	CurrentUpdatedAt time.Time `json:"current_updated_at"`

	// Deleted reports that the remote record is soft-deleted.
	Deleted bool `json:"deleted,omitempty"`
}

// RecordFilter narrows a scope query by the secondary attributes every
// collection shares: a date range over the payload "date" field, an exact
// payload "category", and the active (not soft-deleted) flag.
//
// Dates are the ISO-8601 strings stored in payloads, which compare
// lexicographically in chronological order. The zero filter keeps everything.
type RecordFilter struct {
	// DateFrom keeps records whose payload date is on or after this value.
	DateFrom string `json:"date_from,omitempty"`

	// DateTo keeps records whose payload date is on or before this value.
	DateTo string `json:"date_to,omitempty"`

	// Category keeps records whose payload category equals this value.
	Category string `json:"category,omitempty"`

	// ActiveOnly drops soft-deleted records from the result.
	ActiveOnly bool `json:"active_only,omitempty"`
}

// IsZero reports whether the filter restricts anything.
func (f RecordFilter) IsZero() bool {
	return f == RecordFilter{}
}

// RecordsResponse is the body of collection list reads.
type RecordsResponse struct {
	// Records is the owner scope's records in the requested collection.
	Records []Record `json:"records"`

	// Length is the total number of entries in Records.
	Length int `json:"length"`
}

// RemoteChangeKind classifies one entry of the change subscription stream.
type RemoteChangeKind string

const (
	// RemoteChangeUpsert reports a created or modified record.
	RemoteChangeUpsert RemoteChangeKind = "upsert"

	// RemoteChangeDelete reports a removed record.
	RemoteChangeDelete RemoteChangeKind = "delete"
)

// RemoteChange is one entry of the live change feed pushed from the server
// to subscribed clients after every committed write.
type RemoteChange struct {
	// Kind classifies the change.
	Kind RemoteChangeKind `json:"kind"`

	// Collection is the collection the change happened in.
	Collection Collection `json:"collection"`

	// Record is the full post-change state. For deletes of physically
	// removed records only ID, ScopeID and Version are meaningful.
	Record Record `json:"record"`
}
