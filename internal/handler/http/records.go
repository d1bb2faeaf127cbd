package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	scopeID, found := utils.GetScopeIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getRecord").Msg("no scope in request context")
		http.Error(w, "no scope in request context", http.StatusUnauthorized)
		return
	}

	collection := models.Collection(chi.URLParam(r, "collection"))
	recordID := chi.URLParam(r, "id")

	record, err := h.services.RecordService.GetRecord(ctx, collection, recordID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getRecord").Msg("error getting record")
		http.Error(w, "error getting record", statusFromError(err))
		return
	}
	if record.ScopeID != scopeID {
		// чужой scope маскируем под отсутствие записи
		log.Warn().
			Str("func", "*Handler.getRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("record belongs to another scope")
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	scopeID, found := utils.GetScopeIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listRecords").Msg("no scope in request context")
		http.Error(w, "no scope in request context", http.StatusUnauthorized)
		return
	}

	collection := models.Collection(chi.URLParam(r, "collection"))

	records, err := h.services.RecordService.ListRecords(ctx, scopeID, collection, filterFromQuery(r))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listRecords").Msg("error listing records")
		http.Error(w, "error listing records", statusFromError(err))
		return
	}

	response := models.RecordsResponse{
		Records: records,
		Length:  len(records),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) putRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	scopeID, found := utils.GetScopeIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.putRecord").Msg("no scope in request context")
		http.Error(w, "no scope in request context", http.StatusUnauthorized)
		return
	}

	collection := models.Collection(chi.URLParam(r, "collection"))
	recordID := chi.URLParam(r, "id")

	var writeRequest models.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&writeRequest); err != nil {
		log.Err(err).Str("func", "*Handler.putRecord").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if !h.ownedByScope(w, r, collection, recordID, scopeID) {
		return
	}

	record := models.Record{
		ID:         recordID,
		ScopeID:    scopeID, // owner scope comes from the token, never from the body
		Collection: collection,
		Payload:    writeRequest.Payload,
		UpdatedAt:  writeRequest.UpdatedAt,
	}

	stored, err := h.services.RecordService.WriteRecord(ctx, record, writeRequest.ExpectedVersion)
	switch {
	case errors.Is(err, store.ErrVersionConflict):
		log.Warn().
			Str("func", "*Handler.putRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Int64("expected_version", writeRequest.ExpectedVersion).
			Int64("current_version", stored.Version).
			Msg("versioned write rejected")

		conflict := models.WriteConflictResponse{
			CurrentVersion:   stored.Version,
			CurrentPayload:   stored.Payload,
			CurrentUpdatedAt: stored.UpdatedAt,
			Deleted:          stored.Deleted,
		}
		utils.WriteJSON(w, conflict, http.StatusConflict)
		return
	case err != nil:
		log.Err(err).Str("func", "*Handler.putRecord").Msg("error writing record")
		http.Error(w, "error writing record", statusFromError(err))
		return
	}

	h.hub.Publish(stored.ScopeID, models.RemoteChange{
		Kind:       models.RemoteChangeUpsert,
		Collection: collection,
		Record:     stored,
	})

	utils.WriteJSON(w, stored, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	scopeID, found := utils.GetScopeIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteRecord").Msg("no scope in request context")
		http.Error(w, "no scope in request context", http.StatusUnauthorized)
		return
	}

	collection := models.Collection(chi.URLParam(r, "collection"))
	recordID := chi.URLParam(r, "id")

	if !h.ownedByScope(w, r, collection, recordID, scopeID) {
		return
	}

	record, found, err := h.services.RecordService.DeleteRecord(ctx, collection, recordID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteRecord").Msg("error deleting record")
		http.Error(w, "error deleting record", statusFromError(err))
		return
	}
	if !found {
		// удаление идемпотентно: клиент трактует 404 как уже выполненное
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	h.hub.Publish(record.ScopeID, models.RemoteChange{
		Kind:       models.RemoteChangeDelete,
		Collection: collection,
		Record:     record,
	})

	w.WriteHeader(http.StatusNoContent)
}

// ownedByScope hides records of other households: a matching id in a foreign
// scope is reported as not found. Absent records pass, so creates work.
func (h *Handler) ownedByScope(w http.ResponseWriter, r *http.Request, collection models.Collection, recordID, scopeID string) bool {
	log := logger.FromRequest(r)

	current, err := h.services.RecordService.GetRecord(r.Context(), collection, recordID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return true
	case err != nil:
		log.Err(err).Str("func", "*Handler.ownedByScope").Msg("error checking record ownership")
		http.Error(w, "error checking record ownership", statusFromError(err))
		return false
	case current.ScopeID != scopeID:
		log.Warn().
			Str("func", "*Handler.ownedByScope").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("record belongs to another scope")
		http.Error(w, "record not found", http.StatusNotFound)
		return false
	}

	return true
}

func filterFromQuery(r *http.Request) models.RecordFilter {
	query := r.URL.Query()

	return models.RecordFilter{
		DateFrom:   query.Get("date_from"),
		DateTo:     query.Get("date_to"),
		Category:   query.Get("category"),
		ActiveOnly: query.Get("active_only") == "true",
	}
}
