package memory

import (
	"context"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// DefaultGenres и DefaultMpa совпадают с начальными данными миграций
var (
	DefaultGenres = []domain.Genre{
		{ID: 1, Name: "Комедия"},
		{ID: 2, Name: "Драма"},
		{ID: 3, Name: "Мультфильм"},
		{ID: 4, Name: "Триллер"},
		{ID: 5, Name: "Документальный"},
		{ID: 6, Name: "Боевик"},
	}
	DefaultMpa = []domain.MpaRating{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
)

// CatalogStorage неизменяемые справочники жанров и рейтингов.
// Данные только читаются, поэтому блокировки не нужны.
type CatalogStorage struct {
	genres []domain.Genre
	mpa    []domain.MpaRating
}

// NewCatalogStorage создает справочники с данными по умолчанию
func NewCatalogStorage() *CatalogStorage {
	return &CatalogStorage{genres: DefaultGenres, mpa: DefaultMpa}
}

func (s *CatalogStorage) FindAllGenres(_ context.Context) ([]domain.Genre, error) {
	return append([]domain.Genre{}, s.genres...), nil
}

func (s *CatalogStorage) FindGenreByID(_ context.Context, id int64) (*domain.Genre, error) {
	for _, g := range s.genres {
		if g.ID == id {
			genre := g
			return &genre, nil
		}
	}
	return nil, domain.NotFoundf("genre with id %d", id)
}

func (s *CatalogStorage) FindAllMpa(_ context.Context) ([]domain.MpaRating, error) {
	return append([]domain.MpaRating{}, s.mpa...), nil
}

func (s *CatalogStorage) FindMpaByID(_ context.Context, id int64) (*domain.MpaRating, error) {
	for _, m := range s.mpa {
		if m.ID == id {
			rating := m
			return &rating, nil
		}
	}
	return nil, domain.NotFoundf("mpa rating with id %d", id)
}
