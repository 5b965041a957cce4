package rabbitmq

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

// NoopPublisher используется, когда RABBITMQ_URL не задан:
// события только пишутся в лог на уровне debug
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) PublishActivity(_ context.Context, event payloads.ActivityEvent) error {
	p.logger.Debug("activity event not published, queue disabled", "type", event.Type, "user_id", event.UserID, "entity_id", event.EntityID)
	return nil
}
