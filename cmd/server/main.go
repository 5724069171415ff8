package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/algoxlabs/bms-portfolio/internal/analytics"
	"github.com/algoxlabs/bms-portfolio/internal/api"
	"github.com/algoxlabs/bms-portfolio/internal/config"
	"github.com/algoxlabs/bms-portfolio/internal/database"
	"github.com/algoxlabs/bms-portfolio/internal/jobs"
	"github.com/algoxlabs/bms-portfolio/internal/kafka"
	"github.com/algoxlabs/bms-portfolio/internal/logger"
	"github.com/algoxlabs/bms-portfolio/internal/scanner"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	godotenv.Load()

	log := logger.New(logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
	})

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate("db/migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	analyticsCfg := analytics.Config{
		StrategyName:   cfg.Strategy.Name,
		InitialCapital: cfg.Strategy.InitialCapital,
		InceptionDate:  cfg.Strategy.InceptionDate,
	}

	var feed api.ScanFeed
	if cfg.Scanner.URL != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		feed = scanner.NewClient(cfg.Scanner.URL, rdb, cfg.Scanner.CacheTTL, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewPositionsConsumer(
		cfg.Kafka.Brokers, cfg.Kafka.PositionsTopic, cfg.Kafka.GroupID, db, log,
	)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			log.Error().Err(err).Msg("positions consumer stopped")
		}
	}()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ReportsTopic)
	defer producer.Close()

	publisher := jobs.NewReportPublisher(db, producer, analyticsCfg, cfg.Strategy.ReportCron, log)
	if err := publisher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start report publisher")
	}
	defer publisher.Stop()

	handler := api.NewHandler(db, feed, analyticsCfg, log)
	router := api.SetupRoutes(handler, log)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("portfolio service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
