package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// FilmStorage хранит фильмы в памяти процесса.
// Каждая операция выполняется целиком под мьютексом, поэтому замена
// скалярных полей и всех связей фильма атомарна для читателей.
type FilmStorage struct {
	mu     sync.RWMutex
	films  map[int64]*domain.Film
	nextID int64
	logger *slog.Logger
}

// NewFilmStorage создает пустое хранилище фильмов
func NewFilmStorage(logger *slog.Logger) *FilmStorage {
	return &FilmStorage{
		films:  make(map[int64]*domain.Film),
		logger: logger,
	}
}

func (s *FilmStorage) Create(_ context.Context, film *domain.Film) (*domain.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := cloneFilm(film)
	stored.ID = s.nextID
	normalizeFilm(stored)
	s.films[stored.ID] = stored

	s.logger.Debug("film stored in memory", "film_id", stored.ID)
	return cloneFilm(stored), nil
}

func (s *FilmStorage) Update(_ context.Context, film *domain.Film) (*domain.Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[film.ID]; !ok {
		return nil, domain.NotFoundf("film with id %d", film.ID)
	}
	stored := cloneFilm(film)
	normalizeFilm(stored)
	s.films[stored.ID] = stored

	s.logger.Debug("film replaced in memory", "film_id", stored.ID)
	return cloneFilm(stored), nil
}

func (s *FilmStorage) FindAll(_ context.Context) ([]domain.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	films := make([]domain.Film, 0, len(s.films))
	for _, f := range s.films {
		films = append(films, *cloneFilm(f))
	}
	slices.SortFunc(films, func(a, b domain.Film) int { return compareIDs(a.ID, b.ID) })
	return films, nil
}

func (s *FilmStorage) FindByID(_ context.Context, id int64) (*domain.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.films[id]
	if !ok {
		return nil, domain.NotFoundf("film with id %d", id)
	}
	return cloneFilm(f), nil
}

func (s *FilmStorage) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.films[id]; !ok {
		return domain.NotFoundf("film with id %d", id)
	}
	delete(s.films, id)
	return nil
}

func (s *FilmStorage) AddLike(_ context.Context, filmID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.films[filmID]
	if !ok {
		return domain.NotFoundf("film with id %d", filmID)
	}
	if !f.LikedBy(userID) {
		f.Likes = append(f.Likes, userID)
		f.NormalizeLikes()
	}
	return nil
}

func (s *FilmStorage) RemoveLike(_ context.Context, filmID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.films[filmID]
	if !ok {
		return false, domain.NotFoundf("film with id %d", filmID)
	}
	before := len(f.Likes)
	f.Likes = slices.DeleteFunc(f.Likes, func(id int64) bool { return id == userID })
	return len(f.Likes) < before, nil
}

func (s *FilmStorage) RemoveUserLikes(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.films {
		f.Likes = slices.DeleteFunc(f.Likes, func(id int64) bool { return id == userID })
	}
	s.logger.Debug("user likes removed from memory", "user_id", userID)
	return nil
}

func (s *FilmStorage) GetMostPopular(ctx context.Context, count int) ([]domain.Film, error) {
	if count <= 0 {
		return []domain.Film{}, nil
	}
	films, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(films, func(a, b domain.Film) int {
		if len(a.Likes) != len(b.Likes) {
			return len(b.Likes) - len(a.Likes)
		}
		return compareIDs(a.ID, b.ID)
	})
	if len(films) > count {
		films = films[:count]
	}
	return films, nil
}

func normalizeFilm(f *domain.Film) {
	f.NormalizeLikes()
	genres := make([]domain.Genre, 0, len(f.Genres))
	seen := make(map[int64]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		genres = append(genres, g)
	}
	slices.SortFunc(genres, func(a, b domain.Genre) int { return compareIDs(a.ID, b.ID) })
	f.Genres = genres
}

func cloneFilm(f *domain.Film) *domain.Film {
	c := *f
	c.Genres = append([]domain.Genre{}, f.Genres...)
	c.Likes = append([]int64{}, f.Likes...)
	return &c
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
