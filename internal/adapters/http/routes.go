package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kitbox/internal/adapters/http/middleware"
	"kitbox/internal/metrics"
)

// routes registers every page. Timing and metrics run inside the router so they see route patterns.
func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Timing(a.collector))
	r.Use(metrics.Middleware)

	static, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/healthz", a.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	// Entry page
	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated)
		r.Get("/", a.handleIndex)
		r.Get("/index.html", a.handleIndex)
	})
	r.Post("/login", a.handleLogin)
	r.Post("/register", a.handleRegister)
	r.Post("/logout", a.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCredential)

		r.Get("/master_list", a.handleMasterList)
		r.Route("/gear", func(r chi.Router) {
			r.Get("/new", a.handleGearNew)
			r.Post("/", a.handleGearCreate)
			r.Get("/{id}/edit", a.handleGearEdit)
			r.Post("/{id}", a.handleGearUpdate)
			r.Get("/{id}/delete", a.handleGearDeleteConfirm)
			r.Post("/{id}/delete", a.handleGearDelete)
		})

		r.Get("/paperdoll", a.handlePaperdoll)

		r.Route("/containers", func(r chi.Router) {
			r.Get("/", a.handleContainer)
			r.Get("/add", a.handleContainerAddForm)
			r.Post("/add", a.handleContainerAdd)
			r.Get("/remove", a.handleContainerRemoveConfirm)
			r.Post("/remove", a.handleContainerRemove)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", a.handleLocations)
			r.Post("/", a.handleLocationCreate)
			r.Get("/{id}/edit", a.handleLocationEdit)
			r.Post("/{id}", a.handleLocationUpdate)
			r.Get("/{id}/delete", a.handleLocationDeleteConfirm)
			r.Post("/{id}/delete", a.handleLocationDelete)
		})

		r.Get("/debug/perf", a.handlePerf)
	})

	return r
}
