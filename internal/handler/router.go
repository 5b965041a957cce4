package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers набор обработчиков, из которых собирается маршрутизатор
type Handlers struct {
	Films   *FilmHandler
	Users   *UserHandler
	Catalog *CatalogHandler
	// Metrics отдаёт /metrics; если nil, маршрут не регистрируется
	Metrics http.Handler
}

// NewRouter регистрирует все маршруты Filmorate
func NewRouter(h Handlers, logger *slog.Logger, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/films", func(r chi.Router) {
		r.Get("/", h.Films.List)
		r.Post("/", h.Films.Create)
		r.Put("/", h.Films.Update)
		r.Get("/popular", h.Films.Popular)
		r.Get("/{id}", h.Films.Get)
		r.Delete("/{id}", h.Films.Delete)
		r.Put("/{id}/like/{userId}", h.Films.AddLike)
		r.Delete("/{id}/like/{userId}", h.Films.RemoveLike)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Users.List)
		r.Post("/", h.Users.Create)
		r.Put("/", h.Users.Update)
		r.Get("/{id}", h.Users.Get)
		r.Delete("/{id}", h.Users.Delete)
		r.Get("/{id}/friends", h.Users.Friends)
		r.Put("/{id}/friends/{friendId}", h.Users.AddFriend)
		r.Delete("/{id}/friends/{friendId}", h.Users.RemoveFriend)
		r.Get("/{id}/friends/common/{otherId}", h.Users.CommonFriends)
	})

	r.Get("/genres", h.Catalog.ListGenres)
	r.Get("/genres/{id}", h.Catalog.GetGenre)
	r.Get("/mpa", h.Catalog.ListMpa)
	r.Get("/mpa/{id}", h.Catalog.GetMpa)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	return r
}
