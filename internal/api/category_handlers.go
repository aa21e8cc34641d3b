package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/catalog-service/internal/command"
	"github.com/example/catalog-service/internal/query"
)

// CatalogHandlers exposes category, product, and carrier endpoints.
type CatalogHandlers struct {
	commands *command.Handler
	queries  *query.Handler
}

func NewCatalogHandlers(commands *command.Handler, queries *query.Handler) *CatalogHandlers {
	return &CatalogHandlers{commands: commands, queries: queries}
}

// GET /categories
func (h *CatalogHandlers) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.queries.CategoryForest(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, forest)
}

// GET /categories/{id}
func (h *CatalogHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	item, err := h.queries.CategoryItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// POST /admin/categories
func (h *CatalogHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCategory
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.commands.CreateCategory(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// PUT /admin/categories/{id}
func (h *CatalogHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateCategory
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cmd.CategoryID = chi.URLParam(r, "id")

	item, err := h.commands.UpdateCategory(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DELETE /admin/categories/{id}
func (h *CatalogHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteCategory{CategoryID: chi.URLParam(r, "id")}
	if err := h.commands.DeleteCategory(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
