package http

import (
	"net/http"

	"github.com/MKhiriev/go-budget-keeper/internal/utils"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	// HEAD is the connectivity probe used by clients; GET also reports the build
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	utils.WriteJSON(w, map[string]string{
		"status":  "ok",
		"version": h.buildInfo.BuildVersion(),
		"date":    h.buildInfo.BuildDate(),
		"commit":  h.buildInfo.BuildCommit(),
	}, http.StatusOK)
}
