package api

import "net/http"

// NewRouter wires the gateway routes. All state lives in h.
func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/api/health/", h.Health)
	mux.HandleFunc("/api/decision/evaluate", h.Evaluate)
	if h.Stream != nil {
		mux.Handle("/api/audit/stream", h.Stream)
	}
	mux.HandleFunc("/", h.NotFound)
	return withRequestID(withRecovery(mux))
}
