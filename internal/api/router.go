package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/example/catalog-service/internal/api/middleware"
	"github.com/example/catalog-service/internal/auth"
	"github.com/example/catalog-service/internal/domain/user"
)

// NewRouter wires the public read routes, the auth routes, and the
// admin-only write routes.
func NewRouter(catalog *CatalogHandlers, authHandlers *AuthHandlers, tokens *auth.TokenService, uploadDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(withLogging)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", healthHandler)

	// Public catalog reads.
	r.Get("/categories", catalog.GetCategoryTree)
	r.Get("/categories/{id}", catalog.GetCategory)
	r.Get("/products", catalog.SearchProducts)
	r.Get("/products/{id}", catalog.GetProduct)
	r.Get("/carriers", catalog.GetCarriers)

	// Uploaded product images.
	if uploadDir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(uploadDir))))
	}

	// Auth.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.Register)
		r.Post("/login", authHandlers.Login)
		r.Post("/logout", authHandlers.Logout)
		r.Post("/refresh", authHandlers.Refresh)
		r.Post("/forgot-password", authHandlers.ForgotPassword)
		r.Post("/reset-password", authHandlers.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokens))
			r.Get("/me", authHandlers.Me)
		})
	})

	// Admin writes.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(tokens))
		r.Use(middleware.RequireRole(user.RoleAdmin))

		r.Post("/categories", catalog.CreateCategory)
		r.Put("/categories/{id}", catalog.UpdateCategory)
		r.Delete("/categories/{id}", catalog.DeleteCategory)

		r.Post("/products", catalog.CreateProduct)
		r.Put("/products/{id}", catalog.UpdateProduct)
		r.Delete("/products/{id}", catalog.DeleteProduct)
		r.Put("/products/{id}/image", catalog.UpdateProductImage)

		r.Post("/carriers", catalog.CreateCarrier)
		r.Put("/carriers/{id}", catalog.UpdateCarrier)
		r.Delete("/carriers/{id}", catalog.DeleteCarrier)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
