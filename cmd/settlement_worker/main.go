package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-TrainingService/internal/config"
	"github.com/m04kA/SMC-TrainingService/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/invoice"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	"github.com/m04kA/SMC-TrainingService/internal/integrations/settlementqueue"
	settleTrainingUC "github.com/m04kA/SMC-TrainingService/internal/usecase/settle_training"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
	"github.com/m04kA/SMC-TrainingService/pkg/metrics"
)

// Воркер повторных расчетов: забирает из очереди тренинги, счет по которым
// не удалось выставить сразу после завершения
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting settlement worker (queue=%s, concurrency=%d)...",
		cfg.Settlement.Queue, cfg.Settlement.Concurrency)

	// Метрики воркера не экспонируются по HTTP, собираются только счетчики use case
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "_settlement_worker")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Settlement.Concurrency + 1)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, metricsCollector, cfg.Metrics.ServiceName)

	settleUseCase := settleTrainingUC.NewUseCase(
		trainingRepo.NewRepository(wrappedDB),
		requestRepo.NewRepository(wrappedDB),
		invoiceRepo.NewRepository(wrappedDB),
		metricsCollector,
		log,
	)

	settle := func(ctx context.Context, trainingID int64) error {
		_, err := settleUseCase.Execute(ctx, &settleTrainingUC.Request{TrainingID: trainingID})
		return err
	}

	// Ненайденный или незавершенный тренинг повторять бессмысленно
	handler := settlementqueue.NewHandler(settle, log, domain.ErrNotFound, domain.ErrInvalidState, domain.ErrValidation)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Settlement.Concurrency,
			Queues:      map[string]int{cfg.Settlement.Queue: 1},
		},
	)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	// Run блокируется до SIGINT/SIGTERM
	if err := srv.Run(mux); err != nil {
		log.Fatal("Settlement worker stopped with error: %v", err)
	}

	log.Info("Settlement worker stopped gracefully")
}
