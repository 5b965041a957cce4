package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/Filmorate/internal/usecase"
)

const defaultPopularCount = 10

// FilmHandler: обработчик HTTP-запросов для работы с фильмами.
type FilmHandler struct {
	films  usecase.FilmUseCase
	logger *slog.Logger
}

// NewFilmHandler создаёт новый экземпляр FilmHandler.
func NewFilmHandler(uc usecase.FilmUseCase, logger *slog.Logger) *FilmHandler {
	return &FilmHandler{films: uc, logger: logger}
}

// Create обрабатывает POST /films
func (h *FilmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req filmRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	film, err := h.films.CreateFilm(r.Context(), req.toDomain())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, film, h.logger)
}

// Update обрабатывает PUT /films
func (h *FilmHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req filmRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	if req.ID <= 0 {
		respondWithError(w, r, badRequestf("id is required for update"), h.logger)
		return
	}

	film, err := h.films.UpdateFilm(r.Context(), req.toDomain())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, film, h.logger)
}

// List обрабатывает GET /films
func (h *FilmHandler) List(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.ListFilms(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, films, h.logger)
}

// Get обрабатывает GET /films/{id}
func (h *FilmHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	film, err := h.films.GetFilm(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, film, h.logger)
}

// Delete обрабатывает DELETE /films/{id}
func (h *FilmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.films.DeleteFilm(r.Context(), id); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddLike обрабатывает PUT /films/{id}/like/{userId}
func (h *FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likeParams(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.films.AddLike(r.Context(), filmID, userID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RemoveLike обрабатывает DELETE /films/{id}/like/{userId}
func (h *FilmHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, err := likeParams(r)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.films.RemoveLike(r.Context(), filmID, userID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Popular обрабатывает GET /films/popular?count=N, по умолчанию 10
func (h *FilmHandler) Popular(w http.ResponseWriter, r *http.Request) {
	count := defaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, r, badRequestf("count must be an integer, got %q", raw), h.logger)
			return
		}
		count = n
	}

	films, err := h.films.GetMostPopular(r.Context(), count)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	h.logger.Debug("popular films fetched", "count", count, "returned", len(films))
	respondWithJSON(w, http.StatusOK, films, h.logger)
}

func likeParams(r *http.Request) (filmID, userID int64, err error) {
	if filmID, err = pathID(r, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = pathID(r, "userId"); err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}
