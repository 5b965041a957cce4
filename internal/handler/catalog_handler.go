package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Filmorate/internal/usecase"
)

// CatalogHandler отдаёт справочники жанров и рейтингов MPA
type CatalogHandler struct {
	catalog usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewCatalogHandler(uc usecase.CatalogUseCase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: uc, logger: logger}
}

func (h *CatalogHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.ListGenres(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, genres, h.logger)
}

func (h *CatalogHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	genre, err := h.catalog.GetGenre(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, genre, h.logger)
}

func (h *CatalogHandler) ListMpa(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.catalog.ListMpa(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, ratings, h.logger)
}

func (h *CatalogHandler) GetMpa(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	rating, err := h.catalog.GetMpa(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, rating, h.logger)
}
