package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	httpapi "clubstay-backend/internal/api/http"
	"clubstay-backend/internal/api/http/middleware"
	"clubstay-backend/internal/config"
	"clubstay-backend/internal/database"
	"clubstay-backend/internal/events"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/repository"
	"clubstay-backend/internal/repository/memory"
	"clubstay-backend/internal/repository/sqlstore"
	"clubstay-backend/internal/security"
	"clubstay-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubStay backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "time_zone", cfg.Clock.TimeZone)

	loc := cfg.Location()
	checks := map[string]httpapi.HealthCheck{}

	// Storage
	var (
		reservationRepo repository.ReservationRepository
		billingRepo     repository.BillingRepository
	)
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		reservationRepo, billingRepo = store.ReservationRepository, store.BillingRepository
	} else {
		logger.Info("Connecting to database...", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := database.Open(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store, err := newSQLStore(db, cfg.Database.Driver)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		reservationRepo, billingRepo = store.ReservationRepository, store.BillingRepository
		checks["database"] = store.Ping
		logger.Info("Database connection established")
	}

	// Domain events
	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.RabbitMQ.URL != "" {
		rp, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = rp
		logger.Info("Publishing domain events", "queue", cfg.RabbitMQ.Queue)
	}
	defer publisher.Close()

	// Rate limiting
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && cfg.Redis.Addr != "" {
		rdb, err := database.OpenRedis(cfg.Redis)
		if err != nil {
			// The limiter fails open, so the API still serves without Redis.
			logger.Warn("Redis unavailable, rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rdb.Close()
			limiter = middleware.NewRateLimiter(middleware.NewRedisBucketStore(rdb, cfg.RateLimit), cfg.RateLimit)
			checks["redis"] = redisCheck(rdb)
			logger.Info("Rate limiting enabled", "capacity", cfg.RateLimit.Capacity, "refill_interval", cfg.RateLimit.RefillInterval)
		}
	}

	// Services
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	reservationService := service.NewReservationService(reservationRepo, publisher, time.Now, loc)
	billingService := service.NewBillingService(billingRepo, publisher, time.Now, loc)
	authService := service.NewAuthService(cfg.Staff, tokens)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Reservations: reservationService,
		Billing:      billingService,
		Auth:         authService,
		Tokens:       tokens,
		RateLimiter:  limiter,
		Location:     loc,
		HealthChecks: checks,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func newSQLStore(db *sql.DB, driver string) (*sqlstore.Store, error) {
	dialect, err := sqlstore.ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewStore(db, dialect), nil
}

func redisCheck(rdb *redis.Client) httpapi.HealthCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
