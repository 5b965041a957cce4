package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

// filmUseCase реализует FilmUseCase
type filmUseCase struct {
	films    ports.FilmStorage
	users    ports.UserStorage
	catalog  ports.CatalogStorage
	activity activityNotifier
	logger   *slog.Logger
}

// NewFilmUseCase создает новый экземпляр FilmUseCase.
// publisher может быть nil: тогда события не отправляются.
func NewFilmUseCase(
	films ports.FilmStorage,
	users ports.UserStorage,
	catalog ports.CatalogStorage,
	publisher ports.ActivityPublisher,
	logger *slog.Logger,
) FilmUseCase {
	return &filmUseCase{
		films:    films,
		users:    users,
		catalog:  catalog,
		activity: activityNotifier{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (uc *filmUseCase) CreateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if err := uc.prepare(ctx, film); err != nil {
		return nil, err
	}

	created, err := uc.films.Create(ctx, film)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании фильма: %w", err)
	}
	uc.logger.Info("film created", "film_id", created.ID, "genres", len(created.Genres), "likes", len(created.Likes))
	return created, nil
}

func (uc *filmUseCase) UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if _, err := uc.films.FindByID(ctx, film.ID); err != nil {
		return nil, err
	}
	if err := uc.prepare(ctx, film); err != nil {
		return nil, err
	}

	updated, err := uc.films.Update(ctx, film)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении фильма %d: %w", film.ID, err)
	}
	uc.logger.Info("film updated", "film_id", updated.ID)
	return updated, nil
}

// prepare заменяет рейтинг и жанры каноническими записями справочников
// и проверяет, что все пользователи из лайков существуют
func (uc *filmUseCase) prepare(ctx context.Context, film *domain.Film) error {
	if film.Mpa.ID == 0 {
		return domain.Validationf("mpa rating is required")
	}
	mpa, err := uc.catalog.FindMpaByID(ctx, film.Mpa.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Validationf("unknown mpa rating id %d", film.Mpa.ID)
		}
		return fmt.Errorf("usecase: ошибка при получении рейтинга: %w", err)
	}
	film.Mpa = *mpa

	genreIDs := film.GenreIDs()
	genres := make([]domain.Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		g, err := uc.catalog.FindGenreByID(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.Validationf("unknown genre id %d", id)
			}
			return fmt.Errorf("usecase: ошибка при получении жанра: %w", err)
		}
		genres = append(genres, *g)
	}
	film.Genres = genres

	film.NormalizeLikes()
	for _, userID := range film.Likes {
		if _, err := uc.users.FindByID(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *filmUseCase) GetFilm(ctx context.Context, id int64) (*domain.Film, error) {
	return uc.films.FindByID(ctx, id)
}

func (uc *filmUseCase) ListFilms(ctx context.Context) ([]domain.Film, error) {
	return uc.films.FindAll(ctx)
}

func (uc *filmUseCase) DeleteFilm(ctx context.Context, id int64) error {
	if err := uc.films.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("film deleted", "film_id", id)
	return nil
}

func (uc *filmUseCase) AddLike(ctx context.Context, filmID, userID int64) error {
	if _, err := uc.films.FindByID(ctx, filmID); err != nil {
		return err
	}
	if _, err := uc.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := uc.films.AddLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("usecase: ошибка при добавлении лайка: %w", err)
	}
	uc.logger.Info("like added", "film_id", filmID, "user_id", userID)
	uc.activity.notify(ctx, payloads.ActivityFilmLiked, userID, filmID)
	return nil
}

func (uc *filmUseCase) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := uc.films.FindByID(ctx, filmID); err != nil {
		return err
	}

	removed, err := uc.films.RemoveLike(ctx, filmID, userID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении лайка: %w", err)
	}
	if !removed {
		uc.logger.Debug("like was absent", "film_id", filmID, "user_id", userID)
		return nil
	}
	uc.logger.Info("like removed", "film_id", filmID, "user_id", userID)
	uc.activity.notify(ctx, payloads.ActivityFilmUnliked, userID, filmID)
	return nil
}

func (uc *filmUseCase) GetMostPopular(ctx context.Context, count int) ([]domain.Film, error) {
	if count <= 0 {
		return []domain.Film{}, nil
	}
	return uc.films.GetMostPopular(ctx, count)
}
