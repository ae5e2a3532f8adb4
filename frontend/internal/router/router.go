package router

import (
	"net/http"

	"github.com/folio-desk/folio/frontend/internal/handler"
	"github.com/folio-desk/folio/shared/config"
	mw "github.com/folio-desk/folio/shared/middleware"
	"github.com/folio-desk/folio/shared/middleware/metrics"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// New builds the desk's local JSON surface. Board and task routes need a
// current identity, demo or live.
func New(h *handler.Handler, identity mw.IdentitySource, cfg config.Public) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeadersWithCSP(mw.JSONAPICSP))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.Session)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/submit", h.Submit)
			r.Post("/switch", h.Switch)
			r.Post("/back", h.Back)
			r.Post("/demo", h.Demo)
			r.Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.NeedIdentity(identity))

			r.Post("/banner/dismiss", h.DismissBanner)
			r.Post("/banner/register", h.RegisterFromBanner)

			r.Get("/boards", h.GetBoards)
			r.Post("/boards", h.CreateBoard)
			r.Delete("/boards/{board}", h.DeleteBoard)
			r.Get("/boards/{board}/tasks", h.GetTasks)
			r.Post("/boards/{board}/tasks", h.CreateTask)

			r.Put("/tasks/{task}", h.UpdateTask)
			r.Delete("/tasks/{task}", h.DeleteTask)
			r.Post("/tasks/{task}/toggle", h.ToggleTask)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})

	return r
}
