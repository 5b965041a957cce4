package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// UserStorage хранит пользователей в памяти процесса
type UserStorage struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
	logger *slog.Logger
}

// NewUserStorage создает пустое хранилище пользователей
func NewUserStorage(logger *slog.Logger) *UserStorage {
	return &UserStorage{
		users:  make(map[int64]*domain.User),
		logger: logger,
	}
}

func (s *UserStorage) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := cloneUser(user)
	stored.ID = s.nextID
	stored.NormalizeFriends()
	s.users[stored.ID] = stored

	s.logger.Debug("user stored in memory", "user_id", stored.ID)
	return cloneUser(stored), nil
}

func (s *UserStorage) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, domain.NotFoundf("user with id %d", user.ID)
	}
	stored := cloneUser(user)
	stored.NormalizeFriends()
	s.users[stored.ID] = stored

	s.logger.Debug("user replaced in memory", "user_id", stored.ID)
	return cloneUser(stored), nil
}

func (s *UserStorage) FindAll(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *cloneUser(u))
	}
	slices.SortFunc(users, func(a, b domain.User) int { return compareIDs(a.ID, b.ID) })
	return users, nil
}

func (s *UserStorage) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user with id %d", id)
	}
	return cloneUser(u), nil
}

// Delete удаляет пользователя и убирает его из списков друзей остальных
func (s *UserStorage) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.NotFoundf("user with id %d", id)
	}
	delete(s.users, id)
	for _, u := range s.users {
		u.Friends = slices.DeleteFunc(u.Friends, func(friendID int64) bool { return friendID == id })
	}
	s.logger.Debug("user deleted from memory", "user_id", id)
	return nil
}

func (s *UserStorage) AddFriend(_ context.Context, userID, friendID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.NotFoundf("user with id %d", userID)
	}
	if !u.HasFriend(friendID) {
		u.Friends = append(u.Friends, friendID)
		u.NormalizeFriends()
	}
	return nil
}

func (s *UserStorage) RemoveFriend(_ context.Context, userID, friendID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return false, domain.NotFoundf("user with id %d", userID)
	}
	before := len(u.Friends)
	u.Friends = slices.DeleteFunc(u.Friends, func(id int64) bool { return id == friendID })
	return len(u.Friends) < before, nil
}

func (s *UserStorage) GetFriends(_ context.Context, userID int64) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.NotFoundf("user with id %d", userID)
	}
	return s.resolveLocked(u.Friends), nil
}

func (s *UserStorage) GetCommonFriends(_ context.Context, userID, otherID int64) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.NotFoundf("user with id %d", userID)
	}
	other, ok := s.users[otherID]
	if !ok {
		return nil, domain.NotFoundf("user with id %d", otherID)
	}

	common := make([]int64, 0)
	for _, id := range u.Friends {
		if other.HasFriend(id) {
			common = append(common, id)
		}
	}
	return s.resolveLocked(common), nil
}

// resolveLocked загружает пользователей по id (id уже отсортированы),
// пропуская отсутствующих. Вызывать под s.mu.
func (s *UserStorage) resolveLocked(ids []int64) []domain.User {
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if friend, ok := s.users[id]; ok {
			users = append(users, *cloneUser(friend))
			continue
		}
		s.logger.Warn("skipping dangling friend reference", "friend_id", id)
	}
	return users
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Friends = append([]int64{}, u.Friends...)
	return &c
}
