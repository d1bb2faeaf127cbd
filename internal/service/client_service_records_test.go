// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/mock"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testFacadeScope = "household-1"

func newClientRecordSvc(t *testing.T, ctrl *gomock.Controller) (ClientRecordService, *mock.MockRecordCache) {
	t.Helper()
	cache := mock.NewMockRecordCache(ctrl)
	svc := NewClientRecordService(cache, testFacadeScope, logger.Nop())
	return svc, cache
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Create_GeneratesIDAndStagesIntent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	payload := map[string]any{"amount": 100.0, "date": "2026-08-01", "type": "expense", "category": "groceries"}

	var gotID string
	cache.EXPECT().
		CreateOrUpdate(ctx, models.CollectionTransactions, gomock.Any(), testFacadeScope, int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, collection models.Collection, recordID, scopeID string, _ int64, mutate store.Mutator) (models.Record, error) {
			gotID = recordID

			body, err := mutate(nil)
			require.NoError(t, err)

			return models.Record{
				ID: recordID, ScopeID: scopeID,
				Collection: collection,
				Payload:    body,
				Version:    1,
				SyncStatus: models.SyncStatusPending,
			}, nil
		})

	created, err := svc.Create(ctx, models.CollectionTransactions, payload)
	require.NoError(t, err)

	assert.NotEmpty(t, gotID)
	assert.Equal(t, gotID, created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, payload, created.Payload)
}

func TestClientRecordService_Create_PayloadNotAliased(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	payload := map[string]any{"amount": 100.0}

	cache.EXPECT().
		CreateOrUpdate(ctx, models.CollectionTransactions, gomock.Any(), testFacadeScope, int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Collection, recordID, _ string, _ int64, mutate store.Mutator) (models.Record, error) {
			body, err := mutate(nil)
			require.NoError(t, err)

			// мутация карты вызывающего кода не должна быть видна кешу
			payload["amount"] = 999.0
			assert.Equal(t, 100.0, body["amount"])

			return models.Record{ID: recordID, Payload: body, Version: 1}, nil
		})

	_, err := svc.Create(ctx, models.CollectionTransactions, payload)
	require.NoError(t, err)
}

func TestClientRecordService_Create_RejectsInvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Collection("wallets"), map[string]any{"amount": 1.0})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Contains(t, err.Error(), "unknown collection")

	_, err = svc.Create(ctx, models.CollectionTransactions, nil)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.Contains(t, err.Error(), "payload is required")
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Update_MergesFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	current := map[string]any{"amount": 1000.0, "description": "rent", "date": "2026-08-01"}

	cache.EXPECT().
		CreateOrUpdate(ctx, models.CollectionTransactions, "txn-1", testFacadeScope, int64(3), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Collection, recordID, _ string, _ int64, mutate store.Mutator) (models.Record, error) {
			merged, err := mutate(models.ClonePayload(current))
			require.NoError(t, err)

			return models.Record{ID: recordID, Payload: merged, Version: 4}, nil
		})

	updated, err := svc.Update(ctx, models.CollectionTransactions, "txn-1", 3, map[string]any{"amount": 1500.0})
	require.NoError(t, err)

	// изменённое поле перезаписано, остальные не тронуты
	assert.Equal(t, 1500.0, updated.Payload["amount"])
	assert.Equal(t, "rent", updated.Payload["description"])
	assert.Equal(t, "2026-08-01", updated.Payload["date"])
	assert.Equal(t, int64(4), updated.Version)
}

func TestClientRecordService_Update_RequiresCurrentVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Update(ctx, models.CollectionTransactions, "txn-1", 0, map[string]any{"amount": 1.0})
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Update(ctx, models.CollectionTransactions, "txn-1", 3, nil)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestClientRecordService_Update_VersionConflictPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	cache.EXPECT().
		CreateOrUpdate(ctx, models.CollectionTransactions, "txn-1", testFacadeScope, int64(2), gomock.Any()).
		Return(models.Record{}, store.ErrVersionConflict)

	_, err := svc.Update(ctx, models.CollectionTransactions, "txn-1", 2, map[string]any{"amount": 1.0})
	require.ErrorIs(t, err, store.ErrVersionConflict)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	cache.EXPECT().Delete(ctx, models.CollectionAssets, "asset-1", int64(2)).Return(nil)

	require.NoError(t, svc.Delete(ctx, models.CollectionAssets, "asset-1", 2))
}

func TestClientRecordService_Delete_RejectsInvalidTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	err := svc.Delete(ctx, models.CollectionAssets, "", 2)
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	err = svc.Delete(ctx, models.CollectionAssets, "asset-1", 0)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── Get ──────────────────────────────────────────────────────────────────────

func TestClientRecordService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	want := models.Record{ID: "txn-1", Collection: models.CollectionTransactions, Version: 2}
	cache.EXPECT().Get(ctx, models.CollectionTransactions, "txn-1").Return(want, nil)

	got, err := svc.Get(ctx, models.CollectionTransactions, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientRecordService_Get_NotFoundPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, models.CollectionTransactions, "txn-404").
		Return(models.Record{}, store.ErrRecordNotFound)

	_, err := svc.Get(ctx, models.CollectionTransactions, "txn-404")
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestClientRecordService_List_FiltersAndOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	older := models.Record{
		ID: "txn-1", Collection: models.CollectionTransactions,
		Payload:   map[string]any{"date": "2026-03-10", "category": "groceries"},
		UpdatedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	newer := models.Record{
		ID: "txn-2", Collection: models.CollectionTransactions,
		Payload:   map[string]any{"date": "2026-03-20", "category": "groceries"},
		UpdatedAt: time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC),
	}
	offRange := models.Record{
		ID: "txn-3", Collection: models.CollectionTransactions,
		Payload: map[string]any{"date": "2026-07-01", "category": "groceries"},
	}
	otherCategory := models.Record{
		ID: "txn-4", Collection: models.CollectionTransactions,
		Payload: map[string]any{"date": "2026-03-15", "category": "travel"},
	}
	deleted := models.Record{
		ID: "txn-5", Collection: models.CollectionTransactions,
		Payload: map[string]any{"date": "2026-03-15", "category": "groceries"},
		Deleted: true,
	}

	filter := models.RecordFilter{
		DateFrom:   "2026-03-01",
		DateTo:     "2026-03-31",
		Category:   "groceries",
		ActiveOnly: true,
	}

	cache.EXPECT().
		Query(ctx, models.CollectionTransactions, testFacadeScope, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Collection, _ string, keep store.RecordPredicate, less store.RecordLess) ([]models.Record, error) {
			require.NotNil(t, keep)
			require.NotNil(t, less)

			var result []models.Record
			for _, record := range []models.Record{older, newer, offRange, otherCategory, deleted} {
				if keep(record) {
					result = append(result, record)
				}
			}
			// кеш сортирует компаратором фасада
			if len(result) == 2 && less(result[1], result[0]) {
				result[0], result[1] = result[1], result[0]
			}
			return result, nil
		})

	got, err := svc.List(ctx, models.CollectionTransactions, filter)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "txn-2", got[0].ID)
	assert.Equal(t, "txn-1", got[1].ID)
}

func TestClientRecordService_List_ZeroFilterSkipsPredicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, cache := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	cache.EXPECT().
		Query(ctx, models.CollectionPreferences, testFacadeScope, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Collection, _ string, keep store.RecordPredicate, _ store.RecordLess) ([]models.Record, error) {
			assert.Nil(t, keep)
			return nil, nil
		})

	_, err := svc.List(ctx, models.CollectionPreferences, models.RecordFilter{})
	require.NoError(t, err)
}

func TestClientRecordService_List_RejectsInvertedDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newClientRecordSvc(t, ctrl)
	ctx := context.Background()

	filter := models.RecordFilter{DateFrom: "2026-06-30", DateTo: "2026-01-01"}

	_, err := svc.List(ctx, models.CollectionTransactions, filter)
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}
