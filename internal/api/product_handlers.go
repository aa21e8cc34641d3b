package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/example/catalog-service/internal/command"
	"github.com/example/catalog-service/internal/query"
)

// maxImageSize bounds product image uploads.
const maxImageSize = 10 << 20 // 10MB

// GET /products/{id}
func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.queries.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GET /products?q=&category_id=&min_price=&max_price=&limit=&offset=
func (h *CatalogHandlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.SearchParams{
		Query:      q.Get("q"),
		CategoryID: q.Get("category_id"),
	}
	if v := q.Get("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSONError(w, "invalid min_price", http.StatusBadRequest)
			return
		}
		params.MinPrice = &f
	}
	if v := q.Get("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondJSONError(w, "invalid max_price", http.StatusBadRequest)
			return
		}
		params.MaxPrice = &f
	}
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	params.Offset, _ = strconv.Atoi(q.Get("offset"))

	result, err := h.queries.SearchProducts(r.Context(), params)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// POST /admin/products
func (h *CatalogHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.commands.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// PUT /admin/products/{id}
func (h *CatalogHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cmd.ProductID = chi.URLParam(r, "id")

	view, err := h.commands.UpdateProduct(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DELETE /admin/products/{id}
func (h *CatalogHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteProduct{ProductID: chi.URLParam(r, "id")}
	if err := h.commands.DeleteProduct(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// PUT /admin/products/{id}/image
// Accepts a multipart form with an "image" field. Content type is sniffed
// from the payload, not taken from the client's headers.
func (h *CatalogHandlers) UpdateProductImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSONError(w, "missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		respondJSONError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	upload := newImageUpload(header.Filename, data)
	cmd := command.UpdateProductImage{
		ProductID: chi.URLParam(r, "id"),
		File:      upload,
	}
	view, err := h.commands.UpdateProductImage(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// imageUpload carries a sniffed multipart upload into the command layer.
type imageUpload struct {
	filename    string
	data        []byte
	contentType string
}

func newImageUpload(originalName string, data []byte) *imageUpload {
	return &imageUpload{
		// A fresh name avoids collisions and path tricks in client filenames.
		filename:    uuid.New().String() + strings.ToLower(filepath.Ext(originalName)),
		data:        data,
		contentType: http.DetectContentType(data),
	}
}

func (u *imageUpload) Valid() bool {
	return len(u.data) > 0 && strings.HasPrefix(u.contentType, "image/")
}

func (u *imageUpload) Filename() string { return u.filename }
func (u *imageUpload) Bytes() []byte    { return u.data }
