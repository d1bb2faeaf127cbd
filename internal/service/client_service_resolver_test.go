// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConflictInput собирает типовой вход резолвера: транзакция, локальная
// версия опережает удалённую на одну.
func newConflictInput(local, remote map[string]any) models.ConflictInput {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	return models.ConflictInput{
		Collection:      models.CollectionTransactions,
		RecordID:        "txn-1",
		Local:           local,
		LocalTimestamp:  base.Add(time.Minute),
		LocalVersion:    3,
		Remote:          remote,
		RemoteTimestamp: base,
		RemoteVersion:   2,
	}
}

// ── Без конфликтующих полей ──────────────────────────────────────────────────

func TestConflictResolver_IdenticalPayloads_KeepsLocalRebased(t *testing.T) {
	r := NewConflictResolver()

	payload := map[string]any{"amount": 100.0, "category": "food"}
	input := newConflictInput(payload, map[string]any{"amount": 100.0, "category": "food"})

	// Версии разошлись, но payload совпадает: стратегия не нужна,
	// локальное состояние перебазируется поверх удалённой версии.
	decision := r.Resolve(input, models.StrategyManual)

	require.True(t, decision.Resolved)
	assert.False(t, decision.RequiresManual)
	assert.Equal(t, input.RemoteVersion+1, decision.Version)
	assert.Equal(t, payload, decision.Data)
	assert.Empty(t, decision.ConflictingFields)
}

func TestConflictResolver_DisjointFields_NotAConflict(t *testing.T) {
	r := NewConflictResolver()

	// "note" есть только локально, "description" только удалённо:
	// односторонние поля конфликтом не считаются.
	input := newConflictInput(
		map[string]any{"amount": 100.0, "note": "lunch"},
		map[string]any{"amount": 100.0, "description": "rent"},
	)

	decision := r.Resolve(input, models.StrategyManual)

	require.True(t, decision.Resolved)
	assert.Empty(t, decision.ConflictingFields)
	assert.Equal(t, input.RemoteVersion+1, decision.Version)
	assert.Equal(t, map[string]any{"amount": 100.0, "note": "lunch"}, decision.Data)
}

// ── LastWriterWins ───────────────────────────────────────────────────────────

func TestConflictResolver_LastWriterWins_LocalNewer(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)

	decision := r.Resolve(input, models.StrategyLastWriterWins)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{"amount": 1500.0}, decision.Data)
	assert.Equal(t, input.RemoteVersion+1, decision.Version, "локальная сторона должна перекрыть удалённую версию")
	assert.Equal(t, []string{"amount"}, decision.ConflictingFields)
}

func TestConflictResolver_LastWriterWins_RemoteNewer(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)
	input.RemoteTimestamp = input.LocalTimestamp.Add(time.Minute)

	decision := r.Resolve(input, models.StrategyLastWriterWins)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{"amount": 1200.0}, decision.Data)
	assert.Equal(t, input.RemoteVersion, decision.Version, "удалённая сторона принимается как есть, без пуша")
}

func TestConflictResolver_LastWriterWins_EqualTimestamps_KeepsLocal(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)
	input.RemoteTimestamp = input.LocalTimestamp // ничья — побеждает локальная сторона

	decision := r.Resolve(input, models.StrategyLastWriterWins)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{"amount": 1500.0}, decision.Data)
	assert.Equal(t, input.RemoteVersion+1, decision.Version)
}

// ── AlwaysLocal / AlwaysRemote ───────────────────────────────────────────────

func TestConflictResolver_AlwaysLocal_IgnoresTimestamps(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)
	input.RemoteTimestamp = input.LocalTimestamp.Add(time.Hour) // удалённая новее, но это не важно

	decision := r.Resolve(input, models.StrategyAlwaysLocal)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{"amount": 1500.0}, decision.Data)
	assert.Equal(t, input.RemoteVersion+1, decision.Version)
}

func TestConflictResolver_AlwaysRemote_IgnoresTimestamps(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)

	decision := r.Resolve(input, models.StrategyAlwaysRemote)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{"amount": 1200.0}, decision.Data)
	assert.Equal(t, input.RemoteVersion, decision.Version)
}

// ── FieldMerge ───────────────────────────────────────────────────────────────

func TestConflictResolver_FieldMerge_RemoteNewerTakesConflictingFields(t *testing.T) {
	r := NewConflictResolver()

	// Устройство A правило сумму, устройство B успело записать сумму и
	// добавить описание. Удалённая сторона новее: конфликтующий amount
	// берётся оттуда, одностороннее description доезжает в слиянии.
	input := newConflictInput(
		map[string]any{"amount": 1500.0, "category": "home"},
		map[string]any{"amount": 1200.0, "category": "home", "description": "rent"},
	)
	input.RemoteTimestamp = input.LocalTimestamp.Add(time.Minute)

	decision := r.Resolve(input, models.StrategyFieldMerge)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{
		"amount":      1200.0,
		"category":    "home",
		"description": "rent",
	}, decision.Data)
	assert.Equal(t, input.RemoteVersion+1, decision.Version, "слияние — новое состояние, его нужно пушить")
	assert.Equal(t, []string{"amount"}, decision.ConflictingFields)
}

func TestConflictResolver_FieldMerge_LocalNewerKeepsConflictingFields(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0, "category": "home"},
		map[string]any{"amount": 1200.0, "category": "home", "description": "rent"},
	)

	decision := r.Resolve(input, models.StrategyFieldMerge)

	require.True(t, decision.Resolved)
	assert.Equal(t, map[string]any{
		"amount":      1500.0,
		"category":    "home",
		"description": "rent",
	}, decision.Data)
	assert.Equal(t, input.RemoteVersion+1, decision.Version)
}

// ── Manual ───────────────────────────────────────────────────────────────────

func TestConflictResolver_ManualStrategy_EchoesBothSides(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)

	decision := r.Resolve(input, models.StrategyManual)

	require.True(t, decision.RequiresManual)
	assert.False(t, decision.Resolved)
	assert.Nil(t, decision.Data)
	assert.Equal(t, []string{"amount"}, decision.ConflictingFields)
	assert.Equal(t, input.LocalVersion, decision.LocalVersion)
	assert.Equal(t, input.RemoteVersion, decision.RemoteVersion)
	assert.True(t, decision.LocalChangedAt.Equal(input.LocalTimestamp))
	assert.True(t, decision.RemoteChangedAt.Equal(input.RemoteTimestamp))
}

func TestConflictResolver_UnknownStrategy_FallsBackToManual(t *testing.T) {
	r := NewConflictResolver()

	input := newConflictInput(
		map[string]any{"amount": 1500.0},
		map[string]any{"amount": 1200.0},
	)

	decision := r.Resolve(input, models.ConflictStrategy("newest_wins"))

	require.True(t, decision.RequiresManual)
	assert.False(t, decision.Resolved)
}

// ── Severity ─────────────────────────────────────────────────────────────────

func TestConflictResolver_Severity(t *testing.T) {
	tests := []struct {
		name   string
		local  map[string]any
		remote map[string]any
		want   models.ConflictSeverity
	}{
		{
			name:   "critical field amount",
			local:  map[string]any{"amount": 1500.0, "note": "a"},
			remote: map[string]any{"amount": 1200.0, "note": "a"},
			want:   models.SeverityHigh,
		},
		{
			name:   "critical field date",
			local:  map[string]any{"date": "2026-03-14", "note": "a"},
			remote: map[string]any{"date": "2026-03-15", "note": "a"},
			want:   models.SeverityHigh,
		},
		{
			name: "more than three non-critical fields",
			local: map[string]any{
				"note": "a", "color": "red", "icon": "x", "order": 1.0,
			},
			remote: map[string]any{
				"note": "b", "color": "blue", "icon": "y", "order": 2.0,
			},
			want: models.SeverityMedium,
		},
		{
			name:   "few non-critical fields",
			local:  map[string]any{"note": "a", "color": "red"},
			remote: map[string]any{"note": "b", "color": "blue"},
			want:   models.SeverityLow,
		},
	}

	r := NewConflictResolver()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := newConflictInput(tt.local, tt.remote)
			decision := r.Resolve(input, models.StrategyManual)
			assert.Equal(t, tt.want, decision.Severity)
		})
	}
}

// ── conflictingFields ────────────────────────────────────────────────────────

func TestConflictingFields(t *testing.T) {
	tests := []struct {
		name   string
		local  map[string]any
		remote map[string]any
		want   []string
	}{
		{
			name:   "both nil",
			local:  nil,
			remote: nil,
			want:   nil,
		},
		{
			name:   "equal values",
			local:  map[string]any{"amount": 100.0},
			remote: map[string]any{"amount": 100.0},
			want:   nil,
		},
		{
			name:   "one sided fields skipped",
			local:  map[string]any{"amount": 100.0, "note": "x"},
			remote: map[string]any{"amount": 100.0, "tag": "y"},
			want:   nil,
		},
		{
			name:   "sorted output",
			local:  map[string]any{"type": "expense", "amount": 1.0, "category": "food"},
			remote: map[string]any{"type": "income", "amount": 2.0, "category": "fuel"},
			want:   []string{"amount", "category", "type"},
		},
		{
			name:   "nested values compared deeply",
			local:  map[string]any{"tags": []any{"a", "b"}},
			remote: map[string]any{"tags": []any{"a", "c"}},
			want:   []string{"tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conflictingFields(tt.local, tt.remote))
		})
	}
}
