package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/wordstreak-backend/internal/config"
	"github.com/AnshRaj112/wordstreak-backend/internal/database"
	"github.com/AnshRaj112/wordstreak-backend/internal/handlers"
	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
	"github.com/AnshRaj112/wordstreak-backend/internal/middleware"
	"github.com/AnshRaj112/wordstreak-backend/internal/routes"
	"github.com/AnshRaj112/wordstreak-backend/internal/scheduler"
	"github.com/AnshRaj112/wordstreak-backend/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.IsProduction(), os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		logger.WithError(err).Fatal("Server exited")
	}
}

// run starts every component and serves until ctx is cancelled. Each
// resource is released by a defer here, so an error return still closes
// whatever was opened before it.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Entry) error {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logging.Component(logger, "database"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)

	// Redis is optional: without it the summary cache and the shared rate
	// limit are off.
	var rdb *redis.Client
	if cfg.RedisURI != "" {
		rdb, err = database.ConnectRedis(cfg.RedisURI, logging.Component(logger, "redis"))
		if err != nil {
			logger.WithError(err).Warn("⚠️  Redis unavailable, continuing without cache")
			rdb = nil
		} else {
			defer database.DisconnectRedis(rdb)
		}
	}

	cache := services.NewCacheService(rdb, 10*time.Minute, logging.Component(logger, "cache"))
	vocab := services.NewVocabularyService(db, cache, services.SystemClock{}, logging.Component(logger, "vocabulary"))

	user, err := vocab.EnsureDefaultUser(ctx, cfg.DefaultUserName)
	if err != nil {
		return fmt.Errorf("create default user: %w", err)
	}
	logger.WithField("user_id", user.ID).Infof("✅ Tracking streak for %s", user.Name)

	if cfg.ReminderEnabled {
		schedLog := logging.Component(logger, "scheduler")
		sched := scheduler.New(vocab, scheduler.LogNotifier{Logger: schedLog}, services.SystemClock{}, nil, schedLog)
		if err := sched.Start(cfg.ReminderHour); err != nil {
			logger.WithError(err).Warn("⚠️  Streak reminder disabled")
		} else {
			defer sched.Stop()
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logging.Component(logger, "http")))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		logger.Info("✅ Production security enabled (security headers, host check, per-IP rate limiting)")
	} else if rdb != nil {
		r.Use(middleware.RedisRateLimit(rdb, logging.Component(logger, "ratelimit")))
	}

	routes.SetupRoutes(r, handlers.NewWordHandler(vocab, user.ID, logging.Component(logger, "handlers")))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("🚀 Wordstreak backend running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
