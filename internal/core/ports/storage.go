package ports

import (
	"context"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// FilmStorage определяет методы хранилища фильмов.
// Create и Update синхронизируют жанры и лайки фильма по принципу
// "удалить всё, вставить текущее" и возвращают фильм, перечитанный из хранилища.
type FilmStorage interface {
	Create(ctx context.Context, film *domain.Film) (*domain.Film, error)
	Update(ctx context.Context, film *domain.Film) (*domain.Film, error)
	FindAll(ctx context.Context) ([]domain.Film, error)
	FindByID(ctx context.Context, id int64) (*domain.Film, error)
	Delete(ctx context.Context, id int64) error

	// AddLike идемпотентен, RemoveLike для отсутствующего лайка ничего не делает
	// и возвращает false
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) (bool, error)
	// RemoveUserLikes снимает все лайки пользователя со всех фильмов
	RemoveUserLikes(ctx context.Context, userID int64) error

	// GetMostPopular возвращает до count фильмов по убыванию числа лайков,
	// при равенстве по возрастанию id
	GetMostPopular(ctx context.Context, count int) ([]domain.Film, error)
}

// UserStorage определяет методы хранилища пользователей
type UserStorage interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Delete удаляет пользователя вместе со всеми рёбрами дружбы, в которых он участвует
	Delete(ctx context.Context, id int64) error

	// AddFriend идемпотентен, RemoveFriend для отсутствующего ребра ничего не делает
	// и возвращает false
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error)

	// GetFriends пропускает id друзей, которых уже нет в хранилище
	GetFriends(ctx context.Context, userID int64) ([]domain.User, error)
	// GetCommonFriends возвращает пересечение друзей по возрастанию id
	GetCommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error)
}

// GenreStorage справочник жанров (только чтение)
type GenreStorage interface {
	FindAllGenres(ctx context.Context) ([]domain.Genre, error)
	FindGenreByID(ctx context.Context, id int64) (*domain.Genre, error)
}

// MpaStorage справочник рейтингов MPA (только чтение)
type MpaStorage interface {
	FindAllMpa(ctx context.Context) ([]domain.MpaRating, error)
	FindMpaByID(ctx context.Context, id int64) (*domain.MpaRating, error)
}

// CatalogStorage объединяет оба справочника
type CatalogStorage interface {
	GenreStorage
	MpaStorage
}
