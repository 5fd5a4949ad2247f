package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"showroom/internal/http/handlers"
	"showroom/internal/middleware"
)

// NewRouter assembles the admin/catalog API surface.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer, chimiddleware.Logger)
	r.Use(middleware.NarrationLocale(app.DefaultNarrationLang, lookup))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/products", func(r chi.Router) {
		r.Post("/", app.ProductsCreate)
		r.Get("/", app.ProductsList)
		r.Delete("/", app.ProductsDelete)
		r.Get("/{id}", app.ProductsGet)
		r.Get("/{id}/media", app.MediaStatus)
		r.Post("/{id}/restore", app.ProductsRestore)
	})

	r.Get("/v1/trash", app.TrashList)
	r.Get("/v1/voices", app.Voices)

	return r
}
