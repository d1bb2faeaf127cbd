// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRemoteStore создаёт httpRemoteStore, направленный на тестовый сервер
func newTestRemoteStore(t *testing.T, serverURL string) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.ClientAdapter{ServerAddress: serverURL, Token: "sometoken"}

	r, err := NewHTTPRemoteStore(adapterCfg, logger.Nop())
	require.NoError(t, err)
	return r.(*httpRemoteStore)
}

// ── Get ──────────────────────────────────────────────────────────────────────

func TestGet_Success(t *testing.T) {
	want := models.Record{
		ID:         "rec-1",
		ScopeID:    "scope-1",
		Collection: models.CollectionTransactions,
		Payload:    map[string]any{"amount": 100.0, "category": "groceries"},
		Version:    3,
		UpdatedAt:  time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/transactions/rec-1", r.URL.Path)
		assert.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	got, err := a.Get(context.Background(), models.CollectionTransactions, "rec-1")

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Payload, got.Payload)
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("record not found"))
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	_, err := a.Get(context.Background(), models.CollectionTransactions, "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже остановлен

	a := newTestRemoteStore(t, srv.URL)
	_, err := a.Get(context.Background(), models.CollectionTransactions, "rec-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestList_Success(t *testing.T) {
	want := models.RecordsResponse{
		Records: []models.Record{
			{ID: "rec-1", Collection: models.CollectionTransactions, Version: 1},
			{ID: "rec-2", Collection: models.CollectionTransactions, Version: 4},
		},
		Length: 2,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("date_from"))
		assert.Equal(t, "groceries", r.URL.Query().Get("category"))
		assert.Empty(t, r.URL.Query().Get("date_to"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	got, err := a.List(context.Background(), models.CollectionTransactions, models.RecordFilter{
		DateFrom: "2026-01-01",
		Category: "groceries",
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rec-1", got[0].ID)
	assert.Equal(t, "rec-2", got[1].ID)
}

func TestList_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("token is expired"))
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	_, err := a.List(context.Background(), models.CollectionTransactions, models.RecordFilter{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── SetIfVersion ─────────────────────────────────────────────────────────────

func TestSetIfVersion_Success(t *testing.T) {
	updatedAt := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/transactions/rec-1", r.URL.Path)

		var req models.WriteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2), req.ExpectedVersion)
		assert.Equal(t, map[string]any{"amount": 150.0}, req.Payload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(models.Record{
			ID:         "rec-1",
			Collection: models.CollectionTransactions,
			Payload:    req.Payload,
			Version:    3,
			UpdatedAt:  req.UpdatedAt,
		})
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	record := models.Record{
		ID:         "rec-1",
		Collection: models.CollectionTransactions,
		Payload:    map[string]any{"amount": 150.0},
		UpdatedAt:  updatedAt,
	}

	stored, err := a.SetIfVersion(context.Background(), record, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Version)
	assert.Equal(t, record.Payload, stored.Payload)
}

func TestSetIfVersion_Conflict(t *testing.T) {
	remoteUpdatedAt := time.Date(2026, 2, 11, 8, 30, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(models.WriteConflictResponse{
			CurrentVersion:   5,
			CurrentPayload:   map[string]any{"amount": 999.0},
			CurrentUpdatedAt: remoteUpdatedAt,
		})
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	record := models.Record{ID: "rec-1", Collection: models.CollectionTransactions, Payload: map[string]any{"amount": 150.0}}

	_, err := a.SetIfVersion(context.Background(), record, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var conflictErr *VersionConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(5), conflictErr.CurrentVersion)
	assert.Equal(t, map[string]any{"amount": 999.0}, conflictErr.CurrentPayload)
	assert.True(t, conflictErr.CurrentUpdatedAt.Equal(remoteUpdatedAt))
}

func TestSetIfVersion_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("record not found"))
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	record := models.Record{ID: "gone", Collection: models.CollectionTransactions, Payload: map[string]any{"amount": 1.0}}

	_, err := a.SetIfVersion(context.Background(), record, 4)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/assets/asset-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	err := a.Delete(context.Background(), models.CollectionAssets, "asset-1")
	require.NoError(t, err)
}

func TestDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("record not found"))
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	err := a.Delete(context.Background(), models.CollectionTransactions, "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	require.NoError(t, a.Health(context.Background()))
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	err := a.Health(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestHealth_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestRemoteStore(t, srv.URL)
	err := a.Health(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid http", "http://localhost:8080", "http://localhost:8080", false},
		{"no scheme", "localhost:8080", "http://localhost:8080", false},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080", false},
		{"empty", "", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// ── websocketURL ─────────────────────────────────────────────────────────────

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"http", "http://localhost:8080", "ws://localhost:8080/api/sync/changes"},
		{"https", "https://budget.example.com", "wss://budget.example.com/api/sync/changes"},
		{"with base path", "http://localhost:8080/budget", "ws://localhost:8080/budget/api/sync/changes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := websocketURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
