package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
	"github.com/GoArmGo/Filmorate/internal/metrics"
)

// activityNotifier отправляет события после успешной записи ребра.
// Ошибка публикации только логируется: запись в хранилище уже выполнена.
type activityNotifier struct {
	publisher ports.ActivityPublisher
	logger    *slog.Logger
}

func (n activityNotifier) notify(ctx context.Context, eventType string, userID, entityID int64) {
	if n.publisher == nil {
		return
	}

	event := payloads.ActivityEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
	if err := n.publisher.PublishActivity(ctx, event); err != nil {
		metrics.IncActivityPublishFailures()
		n.logger.Warn("failed to publish activity event",
			"event_id", event.ID,
			"type", eventType,
			"user_id", userID,
			"entity_id", entityID,
			"error", err,
		)
	}
}
