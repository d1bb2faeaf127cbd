package http

import (
	"net/http"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/coder/websocket"
)

func (h *Handler) syncChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	scopeID, found := utils.GetScopeIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncChanges").Msg("no scope in request context")
		http.Error(w, "no scope in request context", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept already replied to the client
		log.Err(err).Str("func", "*Handler.syncChanges").Msg("error upgrading change feed connection")
		return
	}

	log.Info().
		Str("func", "*Handler.syncChanges").
		Str("scope_id", scopeID).
		Msg("change feed subscriber connected")

	h.hub.Attach(scopeID, conn)
}
