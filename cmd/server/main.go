package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/masonry/internal/api"
	"github.com/annel0/masonry/internal/config"
	"github.com/annel0/masonry/internal/engine"
	"github.com/annel0/masonry/internal/eventbus"
	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/observability"
	"github.com/annel0/masonry/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $MASONRY_CONFIG)")
	scene := flag.String("scene", "", "сцена для загрузки при старте")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := logging.InitDefaultLogger(cfg.Logging.Component); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	if l := logging.DefaultLogger(); l != nil {
		fileLevel := logging.TRACE
		if cfg.Logging.FileLevel != "" {
			fileLevel = logging.ParseLevel(cfg.Logging.FileLevel)
		}
		l.SetLevels(logging.ParseLevel(cfg.Logging.ConsoleLevel), fileLevel)
	}

	if err := run(cfg, *scene); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		log.Fatalf("❌ %v", err)
	}
}

func run(cfg *config.Config, initialScene string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("🧱 Запуск сервера укладки кладки...")

	// === ТРАССИРОВКА ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("ошибка инициализации OpenTelemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
		}
	}()

	// === ШИНА УВЕДОМЛЕНИЙ ===
	bus, err := newEventBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	if _, err := eventbus.StartLoggingListener(ctx, bus); err != nil {
		return fmt.Errorf("ошибка подписки логгера событий: %w", err)
	}
	busMetrics := eventbus.NewMetricsExporter(bus, prometheus.DefaultRegisterer)
	busMetrics.Start()
	defer busMetrics.Stop()

	// === ХРАНИЛИЩЕ СЦЕН ===
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("ошибка открытия хранилища %q: %w", cfg.Storage.Driver, err)
	}
	defer store.Close()
	logging.GetStorageLogger().Info("💾 Хранилище сцен: %s (%s)", cfg.Storage.Driver, cfg.Storage.Path)

	// === ДВИЖОК ===
	thickness := config.NewThicknessTable(cfg.Masonry.Joints)
	opts := engine.OptionsFromConfig(cfg.Masonry, thickness)
	opts.Notifier = engine.NewBusNotifier(bus, "engine")
	opts.Registerer = prometheus.DefaultRegisterer
	eng := engine.New(opts)

	if initialScene != "" {
		s, err := store.Load(ctx, initialScene)
		if err != nil {
			return fmt.Errorf("ошибка загрузки сцены %q: %w", initialScene, err)
		}
		if _, err := eng.Load(ctx, s.Units); err != nil {
			return fmt.Errorf("ошибка применения сцены %q: %w", initialScene, err)
		}
	}

	// === REST API ===
	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server := api.NewRestServer(api.Config{
		Port:      restPort,
		Engine:    eng,
		Store:     store,
		Thickness: thickness,
		Bus:       bus,
		Logger:    logging.GetAPILogger(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logging.Info("✅ Сервер запущен: REST API http://localhost%s, хранилище %s", restPort, cfg.Storage.Driver)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", restPort)

	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, остановка...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка REST API: %w", err)
		}
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	_ = logging.GetLoggerManager().CloseAll()

	logging.Info("👋 Сервер успешно остановлен")
	return nil
}

func newEventBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина уведомлений: in-memory (буфер %d)", cfg.Capacity)
		return eventbus.NewMemoryBus(cfg.Capacity), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, time.Duration(cfg.Retention)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к NATS %s: %w", cfg.URL, err)
	}
	logging.Info("📨 Шина уведомлений: JetStream %s (стрим %s)", cfg.URL, cfg.Stream)
	return bus, nil
}
