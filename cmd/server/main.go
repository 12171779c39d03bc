package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/api"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/kafka"
	redisFlags "inventory-ledger/internal/redis"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"
)

func main() {
	setupLogging()
	log.Info().Msg("Starting inventory ledger service...")

	cfg := config.LoadConfig()

	db := initializeDatabase(cfg)
	defer db.Close()

	flags := initializeFlagSource(cfg)
	defer flags.Close()

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaStockTopicName)
	defer publisher.Close()

	repo := repository.NewLedgerRepository(db)
	chaos := service.NewChaosService(flags)

	monitor, err := service.NewMonitorService(repo, publisher, service.MonitorConfig{
		Enabled:            cfg.MonitoringEnabled,
		Interval:           cfg.MonitoringInterval,
		LowStockThreshold:  cfg.LowStockThreshold,
		RestockQuantityMin: cfg.RestockQuantityMin,
		RestockQuantityMax: cfg.RestockQuantityMax,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create restock monitor")
	}

	inventory := service.NewInventoryService(repo, chaos, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)

	server := startHTTPServer(cfg, inventory, monitor, chaos)

	gracefulShutdown(cancel, server)
}

// setupLogging configures structured logging
func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// initializeDatabase sets up and tests the database connection
func initializeDatabase(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	log.Info().Msg("Database connection established")
	return db
}

// initializeFlagSource sets up the Redis-backed flag client. An
// unreachable flag source is not fatal: every lookup falls back to its
// default, which leaves all faults disabled.
func initializeFlagSource(cfg *config.Config) *redisFlags.FlagClient {
	flags := redisFlags.NewFlagClient(cfg.RedisAddrs, cfg.RedisPassword, cfg.ChaosFlagPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := flags.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Flag source unreachable, chaos flags resolve to defaults")
	} else {
		log.Info().Msg("Flag source connection established")
	}

	return flags
}

// startHTTPServer starts the HTTP server
func startHTTPServer(cfg *config.Config, inventory *service.InventoryService, monitor *service.MonitorService, chaos *service.ChaosService) *http.Server {
	inventoryHandler := api.NewInventoryHandler(inventory, monitor, cfg.LowStockThreshold)
	chaosHandler := api.NewChaosHandler(chaos)
	router := api.SetupRoutes(inventoryHandler, chaosHandler)

	serverAddr := fmt.Sprintf("%s:%s", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", serverAddr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	return server
}

// gracefulShutdown handles graceful shutdown of the service
func gracefulShutdown(cancel context.CancelFunc, server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down inventory ledger service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Inventory ledger service stopped")
}
