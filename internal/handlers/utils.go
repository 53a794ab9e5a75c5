package handlers

import (
	"encoding/json"
	"net/http"

	"video-upscaler/internal/logging"
)

// respondJSON writes v with the given status code. HEAD requests get the
// headers only. Encoding errors are logged; the status line is already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response for %s: %v", r.URL.Path, err)
	}
}
