package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-catalog/internal/catalog"
	"asset-catalog/internal/config"
	"asset-catalog/internal/database"
	"asset-catalog/internal/events"
	"asset-catalog/internal/server"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the database on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBDSN, cfg.DBConnectAttempts, log)
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := catalogSource(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer closeSource()

	publisher := eventPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	h := server.NewHandler(db, source, publisher, log)
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.NewRouter(cfg, h, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// catalogSource reads equipment models from the database, through redis when
// REDIS_ADDR is set.
func catalogSource(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (catalog.Source, func(), error) {
	dbSource := catalog.NewDBSource(db)
	if cfg.RedisAddr == "" {
		log.Info("equipment catalog cache disabled")
		return dbSource, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("equipment catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return catalog.NewCachedSource(dbSource, rdb, cfg.CatalogCacheTTL, log), closeFn, nil
}

func eventPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("change events disabled")
		return events.NopPublisher{}
	}
	log.Info("publishing change events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(events.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, log)
}
