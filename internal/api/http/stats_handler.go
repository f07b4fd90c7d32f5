package http

import "net/http"

func (h *handlers) clubStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.ClubStats(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
