package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

// userUseCase реализует UserUseCase
type userUseCase struct {
	users    ports.UserStorage
	films    ports.FilmStorage
	activity activityNotifier
	logger   *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// Хранилище фильмов нужно, чтобы при удалении пользователя снять его лайки.
func NewUserUseCase(users ports.UserStorage, films ports.FilmStorage, publisher ports.ActivityPublisher, logger *slog.Logger) UserUseCase {
	return &userUseCase{
		users:    users,
		films:    films,
		activity: activityNotifier{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (uc *userUseCase) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := uc.prepare(ctx, user); err != nil {
		return nil, err
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании пользователя: %w", err)
	}
	uc.logger.Info("user created", "user_id", created.ID, "login", created.Login)
	return created, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := uc.users.FindByID(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := uc.prepare(ctx, user); err != nil {
		return nil, err
	}

	updated, err := uc.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении пользователя %d: %w", user.ID, err)
	}
	uc.logger.Info("user updated", "user_id", updated.ID)
	return updated, nil
}

// prepare подставляет логин вместо пустого имени и проверяет друзей
func (uc *userUseCase) prepare(ctx context.Context, user *domain.User) error {
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	user.NormalizeFriends()
	for _, friendID := range user.Friends {
		if user.ID != 0 && friendID == user.ID {
			return domain.Validationf("user %d cannot be a friend of themselves", user.ID)
		}
		if _, err := uc.users.FindByID(ctx, friendID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return uc.users.FindByID(ctx, id)
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.FindAll(ctx)
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id int64) error {
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.films.RemoveUserLikes(ctx, id); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении лайков пользователя %d: %w", id, err)
	}
	uc.logger.Info("user deleted", "user_id", id)
	return nil
}

func (uc *userUseCase) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return domain.Validationf("user %d cannot be a friend of themselves", userID)
	}
	if err := uc.ensureUsers(ctx, userID, friendID); err != nil {
		return err
	}

	if err := uc.users.AddFriend(ctx, userID, friendID); err != nil {
		return fmt.Errorf("usecase: ошибка при добавлении друга: %w", err)
	}
	uc.logger.Info("friend added", "user_id", userID, "friend_id", friendID)
	uc.activity.notify(ctx, payloads.ActivityFriendAdded, userID, friendID)
	return nil
}

func (uc *userUseCase) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := uc.ensureUsers(ctx, userID, friendID); err != nil {
		return err
	}

	removed, err := uc.users.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка при удалении друга: %w", err)
	}
	if !removed {
		uc.logger.Debug("friend edge was absent", "user_id", userID, "friend_id", friendID)
		return nil
	}
	uc.logger.Info("friend removed", "user_id", userID, "friend_id", friendID)
	uc.activity.notify(ctx, payloads.ActivityFriendRemoved, userID, friendID)
	return nil
}

func (uc *userUseCase) GetFriends(ctx context.Context, userID int64) ([]domain.User, error) {
	return uc.users.GetFriends(ctx, userID)
}

func (uc *userUseCase) GetCommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	return uc.users.GetCommonFriends(ctx, userID, otherID)
}

func (uc *userUseCase) ensureUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := uc.users.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
