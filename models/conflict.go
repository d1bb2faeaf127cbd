package models

import "time"

// ConflictStrategy selects how the resolver decides between a local and a
// remote version of the same record when their payloads disagree.
type ConflictStrategy string

const (
	// StrategyLastWriterWins adopts whichever side carries the later
	// modification timestamp, wholesale.
	StrategyLastWriterWins ConflictStrategy = "last_writer_wins"

	// StrategyAlwaysLocal keeps the local payload unconditionally.
	StrategyAlwaysLocal ConflictStrategy = "always_local"

	// StrategyAlwaysRemote adopts the remote payload unconditionally.
	StrategyAlwaysRemote ConflictStrategy = "always_remote"

	// StrategyFieldMerge resolves per conflicting field: the remote value is
	// taken only when the remote side is newer, otherwise the local value
	// stands.
	StrategyFieldMerge ConflictStrategy = "field_merge"

	// StrategyManual makes no decision and hands the conflict to a human.
	// This is the default when no strategy is configured.
	StrategyManual ConflictStrategy = "manual"
)

// AllStrategies lists every strategy the resolver accepts.
func AllStrategies() []ConflictStrategy {
	return []ConflictStrategy{
		StrategyLastWriterWins,
		StrategyAlwaysLocal,
		StrategyAlwaysRemote,
		StrategyFieldMerge,
		StrategyManual,
	}
}

// IsValid reports whether s names a known strategy.
func (s ConflictStrategy) IsValid() bool {
	switch s {
	case StrategyLastWriterWins, StrategyAlwaysLocal, StrategyAlwaysRemote,
		StrategyFieldMerge, StrategyManual:
		return true
	}
	return false
}

// ConflictSeverity is an advisory classification used by presentation layers
// to prioritize conflicts. It never affects resolution itself.
type ConflictSeverity string

const (
	// SeverityHigh marks conflicts touching a critical payload field.
	SeverityHigh ConflictSeverity = "high"

	// SeverityMedium marks conflicts with more than three non-critical fields.
	SeverityMedium ConflictSeverity = "medium"

	// SeverityLow marks everything else.
	SeverityLow ConflictSeverity = "low"
)

// ConflictInput carries both sides of a version disagreement into the
// resolver. The payloads are compared field by field; metadata (id, version,
// timestamps, sync status) is never part of the comparison.
type ConflictInput struct {
	// Collection selects the critical-field set for severity classification.
	Collection Collection

	// RecordID identifies the contested record, for logging and events.
	RecordID string

	// Local is the locally mutated payload.
	Local map[string]any

	// LocalTimestamp is when the local mutation happened.
	LocalTimestamp time.Time

	// LocalVersion is the version the local mutation was based on, plus one.
	LocalVersion int64

	// Remote is the payload currently stored by the remote store.
	Remote map[string]any

	// RemoteTimestamp is the remote record's last modification time.
	RemoteTimestamp time.Time

	// RemoteVersion is the version currently stored remotely.
	RemoteVersion int64
}

// ConflictDecision is the resolver's verdict. It is consumed immediately by
// the sync engine and never persisted.
type ConflictDecision struct {
	// Resolved reports that Data and Version carry an applicable outcome.
	Resolved bool `json:"resolved"`

	// Data is the payload to adopt when Resolved.
	Data map[string]any `json:"data,omitempty"`

	// Version is the version the adopted payload must carry.
	Version int64 `json:"version,omitempty"`

	// RequiresManual reports that no automatic decision was possible.
	RequiresManual bool `json:"requires_manual"`

	// ConflictingFields lists the top-level payload fields that differ.
	ConflictingFields []string `json:"conflicting_fields,omitempty"`

	// Severity is the advisory classification of the conflict.
	Severity ConflictSeverity `json:"severity,omitempty"`

	// LocalVersion and RemoteVersion echo the contested versions for
	// presentation when manual resolution is required.
	LocalVersion  int64 `json:"local_version,omitempty"`
	RemoteVersion int64 `json:"remote_version,omitempty"`

	// LocalChangedAt and RemoteChangedAt echo both modification times for
	// presentation when manual resolution is required.
	LocalChangedAt  time.Time `json:"local_changed_at,omitzero"`
	RemoteChangedAt time.Time `json:"remote_changed_at,omitzero"`
}
