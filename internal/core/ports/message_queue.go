package ports

import (
	"context"

	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

// ActivityPublisher публикует события об изменении одиночных рёбер
// (лайки, дружба). Вызывается после успешной записи в хранилище.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event payloads.ActivityEvent) error
}

// ActivityConsumer используется воркером для чтения событий из очереди
type ActivityConsumer interface {
	// StartConsumingActivity начинает прослушивание очереди и вызывает handler
	// для каждого полученного события
	StartConsumingActivity(ctx context.Context, handler func(context.Context, payloads.ActivityEvent) error) error
}
