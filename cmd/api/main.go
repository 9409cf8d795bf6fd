package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/dylandaniels6/dillysdally/internal/adapters/cache"
	adapterHTTP "github.com/dylandaniels6/dillysdally/internal/adapters/handler/http"
	"github.com/dylandaniels6/dillysdally/internal/adapters/repository"
	"github.com/dylandaniels6/dillysdally/internal/config"
	"github.com/dylandaniels6/dillysdally/internal/core/domain"
	"github.com/dylandaniels6/dillysdally/internal/core/services"
)

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	if err := repository.RunMigrations(db); err != nil {
		log.Fatalf("Critical: Failed to run migrations: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisHost != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: redis unavailable, running without cache: %v", err)
		} else {
			redisClient = rdb
			defer rdb.Close()
			log.Println("Redis connected successfully.")
		}
	}

	var dailyRepo domain.DailyRecordRepository = repository.NewPostgresDailyRecordRepository(db)
	if redisClient != nil {
		dailyRepo = repository.NewCachedDailyRecordRepository(dailyRepo, redisClient)
	}
	ledgerRepo := repository.NewPostgresMonetaryRecordRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenDuration, userRepo)
	habitService := services.NewHabitService(dailyRepo)
	journalService := services.NewJournalService(dailyRepo)
	ledgerService := services.NewLedgerService(ledgerRepo)
	metricsService := services.NewMetricsService(ledgerRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService, tokenService),
		JournalHandler: adapterHTTP.NewJournalHandler(journalService),
		HabitHandler:   adapterHTTP.NewHabitHandler(habitService),
		LedgerHandler:  adapterHTTP.NewLedgerHandler(ledgerService),
		MetricsHandler: adapterHTTP.NewMetricsHandler(metricsService),
		TokenService:   tokenService,
		DB:             db,
		Redis:          redisClient,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Dillys Dally API running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
