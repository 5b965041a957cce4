package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/Filmorate/internal/config"
	"github.com/GoArmGo/Filmorate/internal/logger"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

type fakeConsumer struct {
	events  []payloads.ActivityEvent
	handled chan struct{}
}

func (c *fakeConsumer) StartConsumingActivity(ctx context.Context, handler func(context.Context, payloads.ActivityEvent) error) error {
	go func() {
		for _, e := range c.events {
			_ = handler(ctx, e)
		}
		close(c.handled)
	}()
	return nil
}

func testConfig() *config.Config {
	return &config.Config{StorageBackend: config.StorageMemory, ServerPort: "0", RequestTimeout: time.Second}
}

func TestRun_UnknownMode(t *testing.T) {
	closed := false
	a := NewApp(testConfig(), logger.Discard(), http.NotFoundHandler(), nil, func() error {
		closed = true
		return nil
	})

	err := a.Run(context.Background(), "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch")
	assert.True(t, closed, "resources must be released even on failure")
}

func TestRun_WorkerWithoutQueue(t *testing.T) {
	a := NewApp(testConfig(), logger.Discard(), http.NotFoundHandler(), nil)
	err := a.Run(context.Background(), ModeWorker)
	assert.ErrorIs(t, err, errNoActivityQueue)
}

func TestRun_WorkerLogsEvents(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlog(logger.SlogConfig{Level: "info", Format: "json", Output: &buf})
	consumer := &fakeConsumer{
		events: []payloads.ActivityEvent{
			{ID: "e1", Type: payloads.ActivityFilmLiked, UserID: 1, EntityID: 10},
		},
		handled: make(chan struct{}),
	}
	a := NewApp(testConfig(), log, http.NotFoundHandler(), consumer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, ModeWorker) }()

	select {
	case <-consumer.handled:
	case <-time.After(5 * time.Second):
		t.Fatal("events were not handled")
	}
	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, buf.String(), `"type":"film.liked"`)
}

func TestRun_ServerStopsOnCancel(t *testing.T) {
	a := NewApp(testConfig(), logger.Discard(), http.NotFoundHandler(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, ModeServer) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestShutdown_JoinsErrors(t *testing.T) {
	var order []int
	a := NewApp(testConfig(), logger.Discard(), nil, nil,
		func() error { order = append(order, 1); return errors.New("db") },
		func() error { order = append(order, 2); return nil },
	)
	err := a.Shutdown()
	require.Error(t, err)
	assert.Equal(t, []int{2, 1}, order)
}
