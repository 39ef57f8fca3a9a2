package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/api"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memstore"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/migrations"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	tenantRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func main() {
	// Загружаем конфигурацию
	configPath := config.Path("config.toml")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	defaultLocation, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid default timezone: %v", err)
	}

	// Инициализируем хранилище
	var store api.Storage
	switch cfg.Database.Driver {
	case config.DriverMemory:
		mem := memstore.New(memstore.Options{})
		seedDemo(mem, log)
		store = api.Storage{
			Tenants:      mem.Tenants(),
			Services:     mem.Services(),
			Calendar:     mem.Calendar(),
			Reservations: mem.Reservations(),
			TxManager:    mem,
		}
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		// Подключаемся к базе данных
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Database.MigrateOnStart {
			if err := migrations.Up(context.Background(), db, log); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Migrations applied")
		}

		// При выключенных метриках обёртка работает как обычный *sql.DB
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		if cfg.Metrics.Enabled {
			log.Info("Database metrics collection started")
		}

		store = api.Storage{
			Tenants:      tenantRepo.NewRepository(wrappedDB),
			Services:     catalogRepo.NewRepository(wrappedDB),
			Calendar:     calendarRepo.NewRepository(wrappedDB),
			Reservations: reservationRepo.NewRepository(wrappedDB),
			TxManager:    txmanager.NewTransactionManager(wrappedDB),
		}
	}

	// Кэш справочных данных для чтения слотов (nil - выключен)
	var refCache *cache.Cache
	if cfg.Cache.Enabled {
		refCache, err = cache.New(cfg.Cache.MaxItems, cfg.Cache.TTL(), metricsCollector)
		if err != nil {
			log.Fatal("Failed to create cache: %v", err)
		}
		defer refCache.Close()
		log.Info("Reference data cache enabled (max_items=%d, ttl=%s)", cfg.Cache.MaxItems, cfg.Cache.TTL())
	}

	// Публикация событий бронирований
	var publisher interface {
		Publish(ctx context.Context, event eventbus.Event)
		Close() error
	} = eventbus.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = eventbus.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, metricsCollector, log)
		log.Info("Booking events are published to kafka (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем сервисы и use cases
	deps := api.NewDependencies(
		store,
		refCache,
		publisher,
		api.EngineOptions{
			Calendar: calendar.Options{
				Policy:        calendar.FallbackPolicy(cfg.Calendar.UnconfiguredPolicy),
				FallbackOpen:  types.MustTimeString(cfg.Calendar.FallbackOpen),
				FallbackClose: types.MustTimeString(cfg.Calendar.FallbackClose),
			},
			EnforceCalendar: cfg.Booking.EnforceCalendar,
			SlotStepMinutes: cfg.Booking.SlotStepMinutes,
			DefaultLocation: defaultLocation,
		},
		log,
		metricsCollector,
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
		log.Info("Rate limit on public routes: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Настраиваем роутер
	deps.MetricsPath = cfg.Metrics.Path
	deps.RateLimiter = rateLimiter
	r := api.NewRouter(deps)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// seedDemo заводит демонстрационный бизнес для запуска без базы
func seedDemo(store *memstore.Store, log *logger.Logger) {
	tenant := store.Tenants().Add(domain.Tenant{Slug: "demo", Name: "Demo Salon", Active: true})
	service := store.Services().Add(domain.Service{
		TenantID:        tenant.ID,
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           1500,
		Active:          true,
	})
	log.Info("Demo tenant slug=%s with service id=%d created", tenant.Slug, service.ID)
}
