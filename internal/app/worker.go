package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

var errNoActivityQueue = errors.New("worker mode requires RABBITMQ_URL")

// runWorker читает события активности из очереди до отмены ctx
func runWorker(ctx context.Context, consumer ports.ActivityConsumer, logger *slog.Logger) error {
	if consumer == nil {
		return errNoActivityQueue
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingActivity(workerCtx, activityLogger(logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	logger.Info("worker started, waiting for activity events")

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}

// activityLogger пишет каждое событие в лог
func activityLogger(logger *slog.Logger) func(context.Context, payloads.ActivityEvent) error {
	return func(_ context.Context, event payloads.ActivityEvent) error {
		logger.Info("activity event",
			"event_id", event.ID,
			"type", event.Type,
			"user_id", event.UserID,
			"entity_id", event.EntityID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
