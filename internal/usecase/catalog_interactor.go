package usecase

import (
	"context"

	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/domain"
)

type catalogUseCase struct {
	catalog ports.CatalogStorage
}

// NewCatalogUseCase создает новый экземпляр CatalogUseCase
func NewCatalogUseCase(catalog ports.CatalogStorage) CatalogUseCase {
	return &catalogUseCase{catalog: catalog}
}

func (uc *catalogUseCase) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return uc.catalog.FindAllGenres(ctx)
}

func (uc *catalogUseCase) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	return uc.catalog.FindGenreByID(ctx, id)
}

func (uc *catalogUseCase) ListMpa(ctx context.Context) ([]domain.MpaRating, error) {
	return uc.catalog.FindAllMpa(ctx)
}

func (uc *catalogUseCase) GetMpa(ctx context.Context, id int64) (*domain.MpaRating, error) {
	return uc.catalog.FindMpaByID(ctx, id)
}
