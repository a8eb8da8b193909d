package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nurture/internal/config"
	"nurture/internal/database"
	"nurture/internal/logger"
	"nurture/internal/metrics"
	"nurture/internal/notifier"
	"nurture/internal/objectstore"
	"nurture/internal/scheduler"
	"nurture/internal/server"
	"nurture/internal/validator"

	_ "nurture/internal/docs" // Import swagger docs
)

// @title           Nurture API
// @version         1.0
// @description     Nurture is a maternity companion that tracks pregnancies, appointments, health logs, a diary and a community forum.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	m, err := metrics.New()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	n, err := notifier.New(notifier.Options{
		Kind:        appConfig.Notifier,
		URLs:        appConfig.NotifierURLs,
		NATSURL:     appConfig.NATSURL,
		NATSSubject: appConfig.NATSSubject,
	})
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}
	if closer, ok := n.(notifier.Closer); ok {
		defer closer.Close()
	}
	log.Infof("Delivering notifications through %s", n.Name())

	// Left as a nil interface when storage is off so uploads report 503.
	var presigner objectstore.Presigner
	if appConfig.StorageConfigured() {
		store, err := objectstore.NewS3Store(context.Background(), objectstore.Options{
			Endpoint:       appConfig.S3Endpoint,
			AccessKey:      appConfig.S3AccessKey,
			SecretKey:      appConfig.S3SecretKey,
			Region:         appConfig.S3Region,
			Bucket:         appConfig.S3Bucket,
			ForcePathStyle: appConfig.S3ForcePathStyle,
			TTL:            appConfig.UploadURLTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to create object store: %w", err)
		}
		presigner = store
	} else {
		log.Warn("Object storage is not configured; upload requests will be rejected")
	}

	loc := appConfig.Location()
	svc := server.NewServices(dbManager.DB(), server.ServiceConfig{
		Location:      loc,
		SessionTTL:    appConfig.SessionTTL,
		RememberMeTTL: appConfig.RememberMeTTL,
		Notifier:      n,
		Metrics:       m,
	})

	router := server.NewRouter(server.NewHandlers(svc, presigner, appConfig.CookieSecure), server.Options{
		Sessions:      svc.Session,
		Analytics:     svc.Analytics,
		Metrics:       m,
		AuthRateLimit: appConfig.AuthRateLimit,
	})

	var sched *scheduler.Scheduler
	if appConfig.SchedulerEnabled {
		sched, err = scheduler.New(svc.Notification, scheduler.Options{
			Location:         loc,
			DailyCron:        appConfig.DailyReminderCron,
			ConsultationCron: appConfig.ConsultationReminderCron,
			Metrics:          m,
		}, logger.Named("scheduler"))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Nurture backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warnw("scheduler did not stop cleanly", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
