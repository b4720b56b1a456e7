// Package server implements the local development server: it serves the
// generated site and, in watch mode, rebuilds it when the vault changes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter returns a chi router serving the generated site from root, with
// unauthenticated health endpoints for liveness checks.
func NewRouter(root string) chi.Router {
	r := chi.NewRouter()

	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Handle("/*", http.FileServer(http.Dir(root)))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
