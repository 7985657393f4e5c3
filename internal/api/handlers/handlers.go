// Package handlers implements the HTTP handlers for the gateway API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tokengate/tokengate/internal/store"
	pkgmw "github.com/tokengate/tokengate/pkg/middleware"
)

// Handlers bundles the dependencies the API handlers need.
type Handlers struct {
	users store.UserStore
}

// New creates the handler set over the given user store.
func New(users store.UserStore) *Handlers {
	return &Handlers{users: users}
}

// Me returns the authenticated user for the current request.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := pkgmw.GetUser(r.Context())
	if user == nil {
		// Auth middleware guarantees a user on protected routes; this is a
		// wiring error, not a client error.
		writeError(w, http.StatusInternalServerError, "no user in context")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUser returns the user with the given mail address. Admin only.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	mail := chi.URLParam(r, "mail")

	user, err := h.users.FindByEmail(r.Context(), mail)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
