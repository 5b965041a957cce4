package usecase

import (
	"context"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// FilmUseCase определяет бизнес-логику работы с фильмами и лайками
type FilmUseCase interface {
	// CreateFilm проверяет рейтинг и жанры по справочникам, пользователей
	// из лайков и сохраняет фильм
	CreateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error)

	// UpdateFilm полностью заменяет фильм, включая жанры и лайки
	UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error)

	GetFilm(ctx context.Context, id int64) (*domain.Film, error)
	ListFilms(ctx context.Context) ([]domain.Film, error)
	DeleteFilm(ctx context.Context, id int64) error

	// AddLike требует существования фильма и пользователя
	AddLike(ctx context.Context, filmID, userID int64) error

	// RemoveLike требует существования фильма; отсутствующий лайк не ошибка
	RemoveLike(ctx context.Context, filmID, userID int64) error

	// GetMostPopular возвращает до count фильмов с наибольшим числом лайков
	GetMostPopular(ctx context.Context, count int) ([]domain.Film, error)
}

// UserUseCase определяет бизнес-логику работы с пользователями и дружбой
type UserUseCase interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// AddFriend и RemoveFriend работают с направленным ребром userID -> friendID
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error

	GetFriends(ctx context.Context, userID int64) ([]domain.User, error)
	GetCommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error)
}

// CatalogUseCase отдаёт справочники жанров и рейтингов
type CatalogUseCase interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id int64) (*domain.Genre, error)
	ListMpa(ctx context.Context) ([]domain.MpaRating, error)
	GetMpa(ctx context.Context, id int64) (*domain.MpaRating, error)
}
