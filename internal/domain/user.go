package domain

// User представляет пользователя.
// Friends хранит исходящие рёбра дружбы: то, что у A в друзьях есть B,
// не означает обратного.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday Date    `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

// NormalizeFriends убирает дубликаты и сортирует id друзей
func (u *User) NormalizeFriends() {
	u.Friends = UniqueIDs(u.Friends)
}

// HasFriend проверяет наличие исходящего ребра
func (u *User) HasFriend(friendID int64) bool {
	return containsID(u.Friends, friendID)
}
