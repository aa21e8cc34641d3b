// Package api exposes the catalog over HTTP. Reads are public; writes sit
// behind JWT auth with an admin role check.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/catalog-service/internal/auth"
	"github.com/example/catalog-service/internal/domain/carrier"
	"github.com/example/catalog-service/internal/domain/catalog"
	"github.com/example/catalog-service/internal/domain/user"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps domain sentinels onto HTTP statuses. Unknown
// errors become an opaque 500 so internals never leak to clients.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, carrier.ErrCarrierNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, catalog.ErrCategoryNotEmpty),
		errors.Is(err, user.ErrEmailTaken):
		respondJSONError(w, err.Error(), http.StatusConflict)

	case errors.Is(err, catalog.ErrParentCategoryNotFound),
		errors.Is(err, catalog.ErrSelfParent),
		errors.Is(err, catalog.ErrCycleParent),
		errors.Is(err, catalog.ErrInvalidTitle),
		errors.Is(err, catalog.ErrInvalidDescription),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidImage),
		errors.Is(err, catalog.ErrMissingCategory),
		errors.Is(err, carrier.ErrInvalidTitle),
		errors.Is(err, carrier.ErrInvalidPrice),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrResetTokenInvalid),
		errors.Is(err, auth.ErrPasswordTooShort):
		respondJSONError(w, err.Error(), http.StatusBadRequest)

	case errors.Is(err, user.ErrInvalidCredentials):
		respondJSONError(w, err.Error(), http.StatusUnauthorized)

	case errors.Is(err, user.ErrUserDeactivated):
		respondJSONError(w, err.Error(), http.StatusForbidden)

	default:
		slog.Error("request failed", "error", err)
		respondJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
