package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/infrastructure/cache"
	"github.com/printpay/receivables/internal/infrastructure/config"
	"github.com/printpay/receivables/internal/infrastructure/event"
	"github.com/printpay/receivables/internal/infrastructure/logger"
	"github.com/printpay/receivables/internal/infrastructure/migration"
	"github.com/printpay/receivables/internal/infrastructure/persistence"
	"github.com/printpay/receivables/internal/infrastructure/scheduler"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
	"github.com/printpay/receivables/internal/interfaces/http/handler"
	"github.com/printpay/receivables/internal/interfaces/http/middleware"
	"github.com/printpay/receivables/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	log.Info("Starting receivables service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Timezone),
	)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.MapGormLogLevel(cfg.Log.Level),
		Tracing: telemetry.DBTracingConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL: cfg.App.Env == "development",
		},
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := migrateSchema(db, cfg, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	followUpRepo := persistence.NewGormFollowUpRepository(db.DB)
	settingsRepo := persistence.NewGormReminderSettingsRepository(db.DB)

	locker, closeLocker, err := cache.NewLockerFactory(cfg.Redis, cache.WithLogger(log)).CreateLocker(ctx)
	if err != nil {
		log.Fatal("Failed to create invoice locker", zap.Error(err))
	}
	defer func() {
		if err := closeLocker(); err != nil {
			log.Error("Error closing invoice locker", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(rcvapp.NewReminderLogHandler(followUpRepo, log))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)
	collectionMetrics, err := telemetry.NewCollectionMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create collection metrics", zap.Error(err))
	}

	service, err := rcvapp.NewCollectionService(rcvapp.Dependencies{
		Customers: customerRepo,
		Invoices:  invoiceRepo,
		FollowUps: followUpRepo,
		Settings:  settingsRepo,
		Locker:    locker,
		Publisher: bus,
		Metrics:   collectionMetrics,
		Logger:    log,
	}, rcvapp.Options{
		Ledger:          receivables.LedgerPolicy{AllowOverpayment: cfg.Ledger.AllowOverpayment},
		DefaultSettings: defaultReminderSettings(cfg.Reminders),
		MessageTemplate: cfg.Reminders.MessageTemplate,
	})
	if err != nil {
		log.Fatal("Failed to create collection service", zap.Error(err))
	}

	// Daily reminder and PDC jobs
	var (
		jobs    *scheduler.Scheduler
		trigger *scheduler.DailyTrigger
	)
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			QueueSize:         scheduler.DefaultConfig().QueueSize,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, scheduler.NewCollectionExecutor(service, log), log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		trigger, err = scheduler.NewDailyTrigger(scheduler.TriggerConfig{
			RunTime:  cfg.Scheduler.DailyRunTime,
			Location: cfg.Location(),
		}, jobs, invoiceRepo, log)
		if err != nil {
			log.Fatal("Failed to create daily trigger", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start daily trigger", zap.Error(err))
		}
	}

	// HTTP
	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	clock := handler.Clock{Location: cfg.Location()}
	engine := router.New(router.Config{
		Logger: log,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		CORS:        cors,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Metrics:     httpMetrics,
		Ready:       db.PingContext,
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.SwaggerEnabled,
			AllowedIPs: cfg.HTTP.SwaggerAllowedIPs,
		},
	}, router.Handlers{
		Customers: handler.NewCustomerHandler(service, clock),
		Invoices:  handler.NewInvoiceHandler(service, clock),
		Payments:  handler.NewPaymentHandler(service, clock),
		FollowUps: handler.NewFollowUpHandler(service, clock),
		Analytics: handler.NewAnalyticsHandler(service, clock),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping daily trigger", zap.Error(err))
		}
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"logs":    loggerProvider.Shutdown,
		"metrics": meterProvider.Shutdown,
		"traces":  tracerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.String("signal", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// migrateSchema brings the schema up to date when auto-migrate is on.
// Postgres runs the versioned migrations; sqlite is built from the models.
func migrateSchema(db *persistence.Database, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		return nil
	}
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.Source{}, log)
	if err != nil {
		return err
	}
	// closing the migrator would close the shared connection pool
	return m.Up()
}

func defaultReminderSettings(c config.RemindersConfig) receivables.ReminderSettings {
	return receivables.ReminderSettings{
		DaysBeforeDue:      c.DaysBeforeDue,
		RemindOnDue:        c.RemindOnDue,
		DaysAfterDueRepeat: c.DaysAfterDueRepeat,
		EnableWhatsApp:     c.EnableWhatsApp,
		EnableEmail:        c.EnableEmail,
		EnableSMS:          c.EnableSMS,
	}
}
