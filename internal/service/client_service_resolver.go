// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"reflect"
	"sort"

	"github.com/MKhiriev/go-budget-keeper/models"
)

type conflictResolver struct{}

// NewConflictResolver constructs the stateless [ConflictResolver] used by the
// sync engine. All strategy logic lives here; the engine only acts on the
// returned decision.
func NewConflictResolver() ConflictResolver {
	return &conflictResolver{}
}

// Resolve implements [ConflictResolver].
//
// Fields present on only one side are never conflicts: they survive any
// automatic merge untouched. When no field conflicts at all, the version
// counters merely diverged (for example both sides applied the same change),
// so the local payload is kept and rebased over the remote version without
// consulting the strategy.
func (r *conflictResolver) Resolve(input models.ConflictInput, strategy models.ConflictStrategy) models.ConflictDecision {
	fields := conflictingFields(input.Local, input.Remote)
	severity := classifySeverity(input.Collection, fields)

	if len(fields) == 0 {
		return models.ConflictDecision{
			Resolved: true,
			Data:     models.ClonePayload(input.Local),
			Version:  input.RemoteVersion + 1,
			Severity: severity,
		}
	}

	switch strategy {
	case models.StrategyLastWriterWins:
		if input.RemoteTimestamp.After(input.LocalTimestamp) {
			return adoptRemoteDecision(input, fields, severity)
		}
		return keepLocalDecision(input, fields, severity)

	case models.StrategyAlwaysLocal:
		return keepLocalDecision(input, fields, severity)

	case models.StrategyAlwaysRemote:
		return adoptRemoteDecision(input, fields, severity)

	case models.StrategyFieldMerge:
		return fieldMergeDecision(input, fields, severity)

	default:
		// manual, а также любая неизвестная стратегия
		return manualDecision(input, fields, severity)
	}
}

// keepLocalDecision keeps the local payload wholesale. The result must win
// over the current remote state, so it carries remote version plus one and
// gets pushed by the engine.
func keepLocalDecision(input models.ConflictInput, fields []string, severity models.ConflictSeverity) models.ConflictDecision {
	return models.ConflictDecision{
		Resolved:          true,
		Data:              models.ClonePayload(input.Local),
		Version:           input.RemoteVersion + 1,
		ConflictingFields: fields,
		Severity:          severity,
	}
}

// adoptRemoteDecision adopts the remote payload wholesale at its current
// version. Nothing needs to be pushed; the engine installs it locally.
func adoptRemoteDecision(input models.ConflictInput, fields []string, severity models.ConflictSeverity) models.ConflictDecision {
	return models.ConflictDecision{
		Resolved:          true,
		Data:              models.ClonePayload(input.Remote),
		Version:           input.RemoteVersion,
		ConflictingFields: fields,
		Severity:          severity,
	}
}

// fieldMergeDecision builds a merged payload: the local payload is the base,
// fields existing only remotely are added, and every conflicting field takes
// the remote value only when the remote side is strictly newer. The merge is
// a new state, so it carries remote version plus one and gets pushed.
func fieldMergeDecision(input models.ConflictInput, fields []string, severity models.ConflictSeverity) models.ConflictDecision {
	merged := models.ClonePayload(input.Local)
	remote := models.ClonePayload(input.Remote)

	for name, remoteValue := range remote {
		if _, exists := merged[name]; !exists {
			merged[name] = remoteValue
		}
	}

	if input.RemoteTimestamp.After(input.LocalTimestamp) {
		for _, name := range fields {
			merged[name] = remote[name]
		}
	}

	return models.ConflictDecision{
		Resolved:          true,
		Data:              merged,
		Version:           input.RemoteVersion + 1,
		ConflictingFields: fields,
		Severity:          severity,
	}
}

// manualDecision makes no choice and echoes both sides' metadata so the
// presentation layer can show the human everything at once.
func manualDecision(input models.ConflictInput, fields []string, severity models.ConflictSeverity) models.ConflictDecision {
	return models.ConflictDecision{
		RequiresManual:    true,
		ConflictingFields: fields,
		Severity:          severity,
		LocalVersion:      input.LocalVersion,
		RemoteVersion:     input.RemoteVersion,
		LocalChangedAt:    input.LocalTimestamp,
		RemoteChangedAt:   input.RemoteTimestamp,
	}
}

// conflictingFields returns the sorted top-level field names present in both
// payloads with deeply unequal values.
func conflictingFields(local, remote map[string]any) []string {
	var fields []string
	for name, localValue := range local {
		remoteValue, exists := remote[name]
		if !exists {
			continue
		}
		if !reflect.DeepEqual(localValue, remoteValue) {
			fields = append(fields, name)
		}
	}

	sort.Strings(fields)
	return fields
}

// classifySeverity grades a conflict for presentation: any critical field
// makes it high, more than three fields make it medium, the rest is low.
func classifySeverity(collection models.Collection, fields []string) models.ConflictSeverity {
	if len(fields) == 0 {
		return models.SeverityLow
	}

	critical := make(map[string]struct{})
	for _, name := range models.PolicyFor(collection).CriticalFields {
		critical[name] = struct{}{}
	}

	for _, name := range fields {
		if _, ok := critical[name]; ok {
			return models.SeverityHigh
		}
	}

	if len(fields) > 3 {
		return models.SeverityMedium
	}

	return models.SeverityLow
}
