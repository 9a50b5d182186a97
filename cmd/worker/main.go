package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/plantaohub/oncall-api/internal/repository/postgres"
	"github.com/plantaohub/oncall-api/pkg/logger"
	redisbroker "github.com/plantaohub/oncall-api/pkg/messaging/redis"
	"github.com/plantaohub/oncall-api/pkg/metrics"
	"github.com/plantaohub/oncall-api/pkg/worker"
)

// Config is read from the environment with the ONCALL prefix.
type Config struct {
	DatabaseURL        string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL           string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	AuditRetention     time.Duration `envconfig:"AUDIT_RETENTION" default:"0"`
	AuditSweepInterval time.Duration `envconfig:"AUDIT_SWEEP_INTERVAL" default:"24h"`
}

func main() {
	log := logger.NewLogger(nil)

	var cfg Config
	if err := envconfig.Process("ONCALL", &cfg); err != nil {
		log.Fatal(err, "failed to load worker configuration")
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zl)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.New("oncall_worker")
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, log, m, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	retention := worker.NewAuditRetention(auditRepo, log, cfg.AuditRetention, cfg.AuditSweepInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		retention.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker shutting down")
	cancel()
	wg.Wait()
}
