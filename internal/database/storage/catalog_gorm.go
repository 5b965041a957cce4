package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/metrics"
)

type genreModel struct {
	ID   int64  `gorm:"column:genre_id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (genreModel) TableName() string { return "genres" }

type mpaModel struct {
	ID   int64  `gorm:"column:mpa_rating_id;primaryKey"`
	Name string `gorm:"column:name"`
}

func (mpaModel) TableName() string { return "mpa_ratings" }

// CatalogStorage реализует ports.CatalogStorage с использованием GORM.
// Справочники заполняются миграцией и только читаются.
type CatalogStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewCatalogStorage открывает GORM поверх уже существующего пула соединений
func NewCatalogStorage(sqlDB *sql.DB, logger *slog.Logger) (*CatalogStorage, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return &CatalogStorage{db: db, logger: logger}, nil
}

func (s *CatalogStorage) FindAllGenres(ctx context.Context) (_ []domain.Genre, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("genre.find_all", start, err) }()

	var models []genreModel
	if err = s.db.WithContext(ctx).Order("genre_id").Find(&models).Error; err != nil {
		s.logger.Error("failed to list genres", "error", err)
		return nil, fmt.Errorf("ошибка при получении жанров с помощью GORM: %w", err)
	}

	genres := make([]domain.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, domain.Genre{ID: m.ID, Name: m.Name})
	}
	return genres, nil
}

func (s *CatalogStorage) FindGenreByID(ctx context.Context, id int64) (_ *domain.Genre, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("genre.find_by_id", start, err) }()

	var m genreModel
	if err = s.db.WithContext(ctx).First(&m, "genre_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("genre with id %d", id)
		}
		s.logger.Error("failed to get genre", "genre_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении жанра по ID с помощью GORM: %w", err)
	}
	return &domain.Genre{ID: m.ID, Name: m.Name}, nil
}

func (s *CatalogStorage) FindAllMpa(ctx context.Context) (_ []domain.MpaRating, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("mpa.find_all", start, err) }()

	var models []mpaModel
	if err = s.db.WithContext(ctx).Order("mpa_rating_id").Find(&models).Error; err != nil {
		s.logger.Error("failed to list mpa ratings", "error", err)
		return nil, fmt.Errorf("ошибка при получении рейтингов с помощью GORM: %w", err)
	}

	ratings := make([]domain.MpaRating, 0, len(models))
	for _, m := range models {
		ratings = append(ratings, domain.MpaRating{ID: m.ID, Name: m.Name})
	}
	return ratings, nil
}

func (s *CatalogStorage) FindMpaByID(ctx context.Context, id int64) (_ *domain.MpaRating, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("mpa.find_by_id", start, err) }()

	var m mpaModel
	if err = s.db.WithContext(ctx).First(&m, "mpa_rating_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("mpa rating with id %d", id)
		}
		s.logger.Error("failed to get mpa rating", "mpa_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении рейтинга по ID с помощью GORM: %w", err)
	}
	return &domain.MpaRating{ID: m.ID, Name: m.Name}, nil
}
