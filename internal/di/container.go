package di

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GoArmGo/Filmorate/internal/app"
	"github.com/GoArmGo/Filmorate/internal/config"
	"github.com/GoArmGo/Filmorate/internal/core/ports"
	"github.com/GoArmGo/Filmorate/internal/database/client"
	"github.com/GoArmGo/Filmorate/internal/database/memory"
	"github.com/GoArmGo/Filmorate/internal/database/storage"
	"github.com/GoArmGo/Filmorate/internal/handler"
	"github.com/GoArmGo/Filmorate/internal/logger"
	"github.com/GoArmGo/Filmorate/internal/metrics"
	"github.com/GoArmGo/Filmorate/internal/rabbitmq"
	"github.com/GoArmGo/Filmorate/internal/usecase"
)

// stores набор хранилищ выбранной реализации
type stores struct {
	films   ports.FilmStorage
	users   ports.UserStorage
	catalog ports.CatalogStorage
	closers []func() error
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp() (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(registry)

	// 3. Хранилища
	st, err := buildStores(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers := st.closers

	// 4. RabbitMQ (необязателен)
	var (
		publisher ports.ActivityPublisher = rabbitmq.NewNoopPublisher(slogger)
		consumer  ports.ActivityConsumer
	)
	if cfg.PublishesActivity() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			closeAll(closers, slogger)
			return nil, err
		}
		publisher, consumer = rabbitMQClient, rabbitMQClient
		closers = append(closers, func() error {
			rabbitMQClient.Close()
			return nil
		})
	} else {
		slogger.Info("RABBITMQ_URL is not set, activity events are disabled")
	}

	// 5. Бизнес-логика
	filmUseCase := usecase.NewFilmUseCase(st.films, st.users, st.catalog, publisher, slogger)
	userUseCase := usecase.NewUserUseCase(st.users, st.films, publisher, slogger)
	catalogUseCase := usecase.NewCatalogUseCase(st.catalog)

	// 6. HTTP
	router := handler.NewRouter(handler.Handlers{
		Films:   handler.NewFilmHandler(filmUseCase, slogger),
		Users:   handler.NewUserHandler(userUseCase, slogger),
		Catalog: handler.NewCatalogHandler(catalogUseCase, slogger),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, slogger, cfg.RequestTimeout)

	application := app.NewApp(cfg, slogger, router, consumer, closers...)

	slogger.Info("all dependencies initialized", "storage", cfg.StorageBackend)
	return application, nil
}

// buildStores выбирает реализацию хранилища по STORAGE_BACKEND
func buildStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return &stores{
			films:   memory.NewFilmStorage(logger),
			users:   memory.NewUserStorage(logger),
			catalog: memory.NewCatalogStorage(),
		}, nil

	case config.StoragePostgres:
		dbClient, err := client.NewClient(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		catalog, err := storage.NewCatalogStorage(dbClient.DB.DB, logger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		return &stores{
			films:   storage.NewFilmStorage(dbClient.DB, logger),
			users:   storage.NewUserStorage(dbClient.DB, logger),
			catalog: catalog,
			closers: []func() error{dbClient.Close},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func closeAll(closers []func() error, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("failed to release resource", "error", err)
		}
	}
}
