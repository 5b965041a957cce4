package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/Filmorate/internal/config"
	"github.com/GoArmGo/Filmorate/internal/core/ports"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	cfg              *config.Config
	logger           *slog.Logger
	router           http.Handler
	activityConsumer ports.ActivityConsumer
	closers          []func() error
}

// NewApp собирает приложение. activityConsumer может быть nil,
// если очередь не настроена; тогда режим worker недоступен.
// closers вызываются при завершении в обратном порядке.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	activityConsumer ports.ActivityConsumer,
	closers ...func() error,
) *App {
	return &App{
		cfg:              cfg,
		logger:           logger,
		router:           router,
		activityConsumer: activityConsumer,
		closers:          closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до сигнала
// завершения или отмены ctx
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode, "storage", a.cfg.StorageBackend)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.cfg, a.router, a.logger)
	case ModeWorker:
		err = runWorker(ctx, a.activityConsumer, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте '%s' или '%s')", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
		err = errors.Join(err, closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
