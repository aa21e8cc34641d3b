package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/catalog-service/internal/command"
)

// GET /carriers
func (h *CatalogHandlers) GetCarriers(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.queries.Carriers(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, carriers)
}

// POST /admin/carriers
func (h *CatalogHandlers) CreateCarrier(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCarrier
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.commands.CreateCarrier(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// PUT /admin/carriers/{id}
func (h *CatalogHandlers) UpdateCarrier(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateCarrier
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cmd.CarrierID = chi.URLParam(r, "id")

	c, err := h.commands.UpdateCarrier(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /admin/carriers/{id}
func (h *CatalogHandlers) DeleteCarrier(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteCarrier{CarrierID: chi.URLParam(r, "id")}
	if err := h.commands.DeleteCarrier(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "carrier deleted"})
}
