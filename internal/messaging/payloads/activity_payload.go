package payloads

import "time"

// Типы событий активности
const (
	ActivityFilmLiked     = "film.liked"
	ActivityFilmUnliked   = "film.unliked"
	ActivityFriendAdded   = "friend.added"
	ActivityFriendRemoved = "friend.removed"
)

// ActivityEvent описывает изменение одного ребра: кто (UserID) и над чем
// (EntityID: id фильма или друга).
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsKnownActivity проверяет тип события
func IsKnownActivity(eventType string) bool {
	switch eventType {
	case ActivityFilmLiked, ActivityFilmUnliked, ActivityFriendAdded, ActivityFriendRemoved:
		return true
	}
	return false
}
