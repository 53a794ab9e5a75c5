package handlers

import "net/http"

// Status returns the progress of the current run.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.tracker.Snapshot())
}
