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
	userColumns = `u.user_id, u.email, u.login, u.name, u.birthday`

	insertUser = `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING user_id`
	updateUser = `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE user_id = $5`
	deleteUser = `DELETE FROM users WHERE user_id = $1`
	userExists = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	selectFriends = `SELECT ` + userColumns + `
		FROM friendships f JOIN users u ON f.friend_id = u.user_id
		WHERE f.user_id = $1 ORDER BY u.user_id`
	selectCommonFriends = `SELECT ` + userColumns + `
		FROM friendships f1
		JOIN friendships f2 ON f1.friend_id = f2.friend_id
		JOIN users u ON u.user_id = f1.friend_id
		WHERE f1.user_id = $1 AND f2.user_id = $2
		ORDER BY u.user_id`
)

type userRow struct {
	ID       int64          `db:"user_id"`
	Email    string         `db:"email"`
	Login    string         `db:"login"`
	Name     sql.NullString `db:"name"`
	Birthday domain.Date    `db:"birthday"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:       r.ID,
		Email:    r.Email,
		Login:    r.Login,
		Name:     r.Name.String,
		Birthday: r.Birthday,
		Friends:  []int64{},
	}
}

// UserStorage реализует ports.UserStorage поверх PostgreSQL
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает хранилище пользователей
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// Create сохраняет пользователя и его исходящие рёбра дружбы в одной транзакции
func (s *UserStorage) Create(ctx context.Context, user *domain.User) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.create", start, err) }()

	var id int64
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, insertUser,
			user.Email, user.Login, user.Name, user.Birthday,
		).Scan(&id); err != nil {
			return fmt.Errorf("вставка пользователя: %w", err)
		}
		return friendships.replace(ctx, tx, id, user.Friends)
	})
	if err != nil {
		s.logger.Error("failed to create user", "login", user.Login, "error", err)
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", translateError(err))
	}

	s.logger.Info("user created",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindByID(ctx, id)
}

// Update заменяет поля пользователя и полный список его друзей
func (s *UserStorage) Update(ctx context.Context, user *domain.User) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.update", start, err) }()

	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, updateUser, user.Email, user.Login, user.Name, user.Birthday, user.ID)
		if err != nil {
			return fmt.Errorf("обновление пользователя: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.NotFoundf("user with id %d", user.ID)
		}
		return friendships.replace(ctx, tx, user.ID, user.Friends)
	})
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("user not found for update", "user_id", user.ID)
			return nil, err
		}
		s.logger.Error("failed to update user", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении пользователя: %w", translateError(err))
	}

	s.logger.Info("user updated",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindByID(ctx, user.ID)
}

func (s *UserStorage) FindAll(ctx context.Context) (_ []domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.find_all", start, err) }()

	var rows []userRow
	if err = s.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users u ORDER BY u.user_id`); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return s.withFriends(ctx, rows)
}

func (s *UserStorage) FindByID(ctx context.Context, id int64) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.find_by_id", start, err) }()

	var row userRow
	err = s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users u WHERE u.user_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, domain.NotFoundf("user with id %d", id)
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}

	users, err := s.withFriends(ctx, []userRow{row})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

// Delete удаляет пользователя; рёбра дружбы и лайки удаляются каскадом
func (s *UserStorage) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.delete", start, err) }()

	res, err := s.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.logger.Error("failed to read affected rows", "user_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("user with id %d", id)
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *UserStorage) AddFriend(ctx context.Context, userID, friendID int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.add_friend", start, err) }()

	if err = friendships.add(ctx, s.db, userID, friendID); err != nil {
		s.logger.Error("failed to add friend", "user_id", userID, "friend_id", friendID, "error", err)
		return fmt.Errorf("ошибка при добавлении друга: %w", translateError(err))
	}
	return nil
}

func (s *UserStorage) RemoveFriend(ctx context.Context, userID, friendID int64) (removed bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.remove_friend", start, err) }()

	if removed, err = friendships.remove(ctx, s.db, userID, friendID); err != nil {
		s.logger.Error("failed to remove friend", "user_id", userID, "friend_id", friendID, "error", err)
		return false, fmt.Errorf("ошибка при удалении друга: %w", err)
	}
	return removed, nil
}

// GetFriends возвращает друзей пользователя. JOIN с users отбрасывает
// рёбра, указывающие на уже удалённых пользователей.
func (s *UserStorage) GetFriends(ctx context.Context, userID int64) (_ []domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.friends", start, err) }()

	if err = s.ensureExists(ctx, userID); err != nil {
		return nil, err
	}

	var rows []userRow
	if err = s.db.SelectContext(ctx, &rows, selectFriends, userID); err != nil {
		s.logger.Error("failed to get friends", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении друзей: %w", err)
	}
	return s.withFriends(ctx, rows)
}

func (s *UserStorage) GetCommonFriends(ctx context.Context, userID, otherID int64) (_ []domain.User, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("user.common_friends", start, err) }()

	for _, id := range []int64{userID, otherID} {
		if err = s.ensureExists(ctx, id); err != nil {
			return nil, err
		}
	}

	var rows []userRow
	if err = s.db.SelectContext(ctx, &rows, selectCommonFriends, userID, otherID); err != nil {
		s.logger.Error("failed to get common friends", "user_id", userID, "other_id", otherID, "error", err)
		return nil, fmt.Errorf("ошибка при получении общих друзей: %w", err)
	}
	return s.withFriends(ctx, rows)
}

func (s *UserStorage) ensureExists(ctx context.Context, id int64) error {
	var ok bool
	if err := s.db.GetContext(ctx, &ok, userExists, id); err != nil {
		return fmt.Errorf("проверка пользователя %d: %w", id, err)
	}
	if !ok {
		return domain.NotFoundf("user with id %d", id)
	}
	return nil
}

// withFriends загружает списки друзей одним запросом для всех пользователей
func (s *UserStorage) withFriends(ctx context.Context, rows []userRow) ([]domain.User, error) {
	users := make([]domain.User, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
		ids = append(ids, r.ID)
	}

	friends, err := friendships.loadByParents(ctx, s.db, ids)
	if err != nil {
		s.logger.Error("failed to load friendships", "users", len(ids), "error", err)
		return nil, err
	}
	for i := range users {
		if f, ok := friends[users[i].ID]; ok {
			users[i].Friends = f
		}
	}
	return users, nil
}
