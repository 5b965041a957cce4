package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/metrics"
)

const (
	filmColumns = `f.film_id, f.name, f.description, f.release_date, f.duration,
		f.mpa_rating_id, m.name AS mpa_name`
	filmBaseSelect = `SELECT ` + filmColumns + `
		FROM films f JOIN mpa_ratings m ON f.mpa_rating_id = m.mpa_rating_id`

	insertFilm = `INSERT INTO films (name, description, release_date, duration, mpa_rating_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING film_id`
	updateFilm = `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4,
		mpa_rating_id = $5 WHERE film_id = $6`
	deleteFilm = `DELETE FROM films WHERE film_id = $1`

	selectPopularFilms = `SELECT ` + filmColumns + `
		FROM films f
		JOIN mpa_ratings m ON f.mpa_rating_id = m.mpa_rating_id
		LEFT JOIN film_likes fl ON f.film_id = fl.film_id
		GROUP BY f.film_id, m.name
		ORDER BY COUNT(fl.user_id) DESC, f.film_id
		LIMIT $1`

	selectGenresByFilmIDs = `SELECT fg.film_id, g.genre_id, g.name
		FROM film_genres fg JOIN genres g ON fg.genre_id = g.genre_id
		WHERE fg.film_id IN (?) ORDER BY fg.film_id, g.genre_id`
)

// filmRow строка выборки фильма вместе с названием рейтинга
type filmRow struct {
	ID          int64          `db:"film_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	ReleaseDate domain.Date    `db:"release_date"`
	Duration    int            `db:"duration"`
	MpaID       int64          `db:"mpa_rating_id"`
	MpaName     string         `db:"mpa_name"`
}

func (r filmRow) toDomain() domain.Film {
	return domain.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.String,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
		Mpa:         domain.MpaRating{ID: r.MpaID, Name: r.MpaName},
		Genres:      []domain.Genre{},
		Likes:       []int64{},
	}
}

type filmGenreRow struct {
	FilmID  int64  `db:"film_id"`
	GenreID int64  `db:"genre_id"`
	Name    string `db:"name"`
}

// FilmStorage реализует ports.FilmStorage поверх PostgreSQL
type FilmStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewFilmStorage создает хранилище фильмов
func NewFilmStorage(db *sqlx.DB, logger *slog.Logger) *FilmStorage {
	return &FilmStorage{db: db, logger: logger}
}

// Create сохраняет фильм и все его связи в одной транзакции
func (s *FilmStorage) Create(ctx context.Context, film *domain.Film) (_ *domain.Film, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.create", start, err) }()

	var id int64
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, insertFilm,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID,
		).Scan(&id); err != nil {
			return fmt.Errorf("вставка фильма: %w", err)
		}
		return s.syncAssociations(ctx, tx, id, film)
	})
	if err != nil {
		s.logger.Error("failed to create film", "name", film.Name, "error", err)
		return nil, fmt.Errorf("ошибка при создании фильма: %w", translateError(err))
	}

	s.logger.Info("film created",
		"film_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindByID(ctx, id)
}

// Update заменяет скалярные поля и все связи фильма
func (s *FilmStorage) Update(ctx context.Context, film *domain.Film) (_ *domain.Film, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.update", start, err) }()

	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, updateFilm,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
		if err != nil {
			return fmt.Errorf("обновление фильма: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.NotFoundf("film with id %d", film.ID)
		}
		return s.syncAssociations(ctx, tx, film.ID, film)
	})
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("film not found for update", "film_id", film.ID)
			return nil, err
		}
		s.logger.Error("failed to update film", "film_id", film.ID, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении фильма: %w", translateError(err))
	}

	s.logger.Info("film updated",
		"film_id", film.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindByID(ctx, film.ID)
}

func (s *FilmStorage) syncAssociations(ctx context.Context, tx *sqlx.Tx, filmID int64, film *domain.Film) error {
	if err := filmGenres.replace(ctx, tx, filmID, film.GenreIDs()); err != nil {
		return err
	}
	return filmLikes.replace(ctx, tx, filmID, film.Likes)
}

// FindAll возвращает все фильмы по возрастанию id
func (s *FilmStorage) FindAll(ctx context.Context) (_ []domain.Film, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.find_all", start, err) }()

	var rows []filmRow
	if err = s.db.SelectContext(ctx, &rows, filmBaseSelect+` ORDER BY f.film_id`); err != nil {
		s.logger.Error("failed to list films", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка фильмов: %w", err)
	}

	films, err := s.withRelations(ctx, rows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("films listed", "count", len(films), "duration_ms", time.Since(start).Milliseconds())
	return films, nil
}

// FindByID получает фильм со всеми связями
func (s *FilmStorage) FindByID(ctx context.Context, id int64) (_ *domain.Film, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.find_by_id", start, err) }()

	var row filmRow
	err = s.db.GetContext(ctx, &row, filmBaseSelect+` WHERE f.film_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("film not found by id", "film_id", id)
			return nil, domain.NotFoundf("film with id %d", id)
		}
		s.logger.Error("failed to get film by id", "film_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении фильма по ID: %w", err)
	}

	films, err := s.withRelations(ctx, []filmRow{row})
	if err != nil {
		return nil, err
	}
	return &films[0], nil
}

// Delete удаляет фильм; его жанры и лайки удаляются каскадом
func (s *FilmStorage) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.delete", start, err) }()

	res, err := s.db.ExecContext(ctx, deleteFilm, id)
	if err != nil {
		s.logger.Error("failed to delete film", "film_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении фильма: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logger.Error("failed to read affected rows", "film_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении фильма: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("film with id %d", id)
	}
	s.logger.Info("film deleted", "film_id", id)
	return nil
}

func (s *FilmStorage) AddLike(ctx context.Context, filmID, userID int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.add_like", start, err) }()

	if err = filmLikes.add(ctx, s.db, filmID, userID); err != nil {
		s.logger.Error("failed to add like", "film_id", filmID, "user_id", userID, "error", err)
		return fmt.Errorf("ошибка при добавлении лайка: %w", translateError(err))
	}
	return nil
}

func (s *FilmStorage) RemoveLike(ctx context.Context, filmID, userID int64) (removed bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.remove_like", start, err) }()

	if removed, err = filmLikes.remove(ctx, s.db, filmID, userID); err != nil {
		s.logger.Error("failed to remove like", "film_id", filmID, "user_id", userID, "error", err)
		return false, fmt.Errorf("ошибка при удалении лайка: %w", err)
	}
	return removed, nil
}

// RemoveUserLikes снимает все лайки пользователя. После удаления
// пользователя каскад уже сделал это, и запрос ничего не затрагивает.
func (s *FilmStorage) RemoveUserLikes(ctx context.Context, userID int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("film.remove_user_likes", start, err) }()

	n, err := filmLikes.removeChild(ctx, s.db, userID)
	if err != nil {
		s.logger.Error("failed to remove user likes", "user_id", userID, "error", err)
		return fmt.Errorf("ошибка при удалении лайков пользователя: %w", err)
	}
	s.logger.Debug("user likes removed", "user_id", userID, "removed", n)
	return nil
}

// GetMostPopular сортирует фильмы по числу лайков на стороне БД
func (s *FilmStorage) GetMostPopular(ctx context.Context, count int) (_ []domain.Film, err error) {
	if count <= 0 {
		return []domain.Film{}, nil
	}
	start := time.Now()
	defer func() { metrics.ObserveStore("film.popular", start, err) }()

	var rows []filmRow
	if err = s.db.SelectContext(ctx, &rows, selectPopularFilms, count); err != nil {
		s.logger.Error("failed to get popular films", "count", count, "error", err)
		return nil, fmt.Errorf("ошибка при получении популярных фильмов: %w", err)
	}
	return s.withRelations(ctx, rows)
}

// withRelations дополняет фильмы жанрами и лайками: по одному запросу
// на каждый вид связи для всего набора фильмов
func (s *FilmStorage) withRelations(ctx context.Context, rows []filmRow) ([]domain.Film, error) {
	films := make([]domain.Film, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		films = append(films, r.toDomain())
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return films, nil
	}

	genres, err := s.loadGenres(ctx, ids)
	if err != nil {
		return nil, err
	}
	likes, err := filmLikes.loadByParents(ctx, s.db, ids)
	if err != nil {
		s.logger.Error("failed to load likes", "films", len(ids), "error", err)
		return nil, err
	}

	for i := range films {
		if g, ok := genres[films[i].ID]; ok {
			films[i].Genres = g
		}
		if l, ok := likes[films[i].ID]; ok {
			films[i].Likes = l
		}
	}
	return films, nil
}

func (s *FilmStorage) loadGenres(ctx context.Context, filmIDs []int64) (map[int64][]domain.Genre, error) {
	q, args, err := sqlx.In(selectGenresByFilmIDs, filmIDs)
	if err != nil {
		return nil, fmt.Errorf("построение запроса жанров: %w", err)
	}

	var rows []filmGenreRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		s.logger.Error("failed to load genres", "films", len(filmIDs), "error", err)
		return nil, fmt.Errorf("ошибка при загрузке жанров: %w", err)
	}

	result := make(map[int64][]domain.Genre, len(filmIDs))
	for _, r := range rows {
		result[r.FilmID] = append(result[r.FilmID], domain.Genre{ID: r.GenreID, Name: r.Name})
	}
	return result, nil
}
