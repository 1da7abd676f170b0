package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelTrainingHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/cancel_training"
	completeTrainingHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/complete_training"
	createRequestsHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/create_requests"
	createTrainingHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/create_training"
	getInvoiceHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/get_invoice"
	getRequestHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/get_request"
	getRequestEventsHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/get_request_events"
	getTrainingHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/get_training"
	listRequestsHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/list_requests"
	transitionRequestHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/transition_request"
	updateTrainingPriceHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/update_training_price"
	updateTrainingStatusHandler "github.com/m04kA/SMC-TrainingService/internal/api/handlers/update_training_status"
	"github.com/m04kA/SMC-TrainingService/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingService/internal/config"
	"github.com/m04kA/SMC-TrainingService/internal/infra/migrator"
	eventRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/event"
	invoiceRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/invoice"
	listingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/listing"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
	"github.com/m04kA/SMC-TrainingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TrainingService/internal/integrations/settlementqueue"
	requestsService "github.com/m04kA/SMC-TrainingService/internal/service/requests"
	trainingsService "github.com/m04kA/SMC-TrainingService/internal/service/trainings"
	cancelTrainingUC "github.com/m04kA/SMC-TrainingService/internal/usecase/cancel_training"
	completeTrainingUC "github.com/m04kA/SMC-TrainingService/internal/usecase/complete_training"
	createRequestsUC "github.com/m04kA/SMC-TrainingService/internal/usecase/create_requests"
	settleTrainingUC "github.com/m04kA/SMC-TrainingService/internal/usecase/settle_training"
	transitionRequestUC "github.com/m04kA/SMC-TrainingService/internal/usecase/transition_request"
	"github.com/m04kA/SMC-TrainingService/migrations"
	"github.com/m04kA/SMC-TrainingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingService/pkg/logger"
	"github.com/m04kA/SMC-TrainingService/pkg/metrics"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TrainingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		m, err := migrator.New(db, migrations.FS, log)
		if err != nil {
			log.Fatal("Failed to init migrator: %v", err)
		}
		if err := m.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без метрик обёртка только прокидывает запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	// Redis: кэш справочника, поток событий и очередь расчетов
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis is unavailable at %s: %v", cfg.Redis.Addr, err)
	}

	// Инициализируем интеграционных клиентов
	var cache directoryClient.Cache
	if cfg.DirectoryService.CacheTTL > 0 {
		cache = directoryClient.NewRedisCache(redisClient, "directory:")
	}
	dirClient := directoryClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		cache,
		time.Duration(cfg.DirectoryService.CacheTTL)*time.Second,
		log,
	)
	log.Info("Directory client initialized (url=%s timeout=%ds cache_ttl=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout, cfg.DirectoryService.CacheTTL)

	var eventNotifier transitionRequestUC.Notifier = notifier.Nop{}
	if cfg.Notifications.Enabled {
		eventNotifier = notifier.NewPublisher(redisClient, cfg.Notifications.Stream, cfg.Notifications.MaxLen, log)
		log.Info("Request events are published to stream %s", cfg.Notifications.Stream)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	settlementQueue := settlementqueue.NewClient(asynqClient, cfg.Settlement.Queue, cfg.Settlement.MaxRetry, log)

	// Инициализируем репозитории
	trainingRepository := trainingRepo.NewRepository(wrappedDB)
	requestRepository := requestRepo.NewRepository(wrappedDB)
	invoiceRepository := invoiceRepo.NewRepository(wrappedDB)
	eventRepository := eventRepo.NewRepository(wrappedDB)
	listingRepository := listingRepo.NewRepository(sqlx.NewDb(db, "postgres"))
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем сервисы
	trainingSvc := trainingsService.NewService(
		trainingRepository,
		requestRepository,
		invoiceRepository,
		dirClient,
		txMgr,
		log,
	)
	requestSvc := requestsService.NewService(
		requestRepository,
		trainingRepository,
		eventRepository,
		listingRepository,
		dirClient,
		log,
	)

	// Инициализируем use cases
	createRequestsUseCase := createRequestsUC.NewUseCase(
		trainingRepository,
		requestRepository,
		dirClient,
		txMgr,
		log,
	)
	transitionRequestUseCase := transitionRequestUC.NewUseCase(
		trainingRepository,
		requestRepository,
		eventRepository,
		eventNotifier,
		metricsCollector,
		txMgr,
		log,
	)
	cancelTrainingUseCase := cancelTrainingUC.NewUseCase(
		trainingRepository,
		requestRepository,
		eventRepository,
		eventNotifier,
		metricsCollector,
		txMgr,
		log,
	)
	settleTrainingUseCase := settleTrainingUC.NewUseCase(
		trainingRepository,
		requestRepository,
		invoiceRepository,
		metricsCollector,
		log,
	)
	completeTrainingUseCase := completeTrainingUC.NewUseCase(
		trainingRepository,
		requestRepository,
		eventRepository,
		eventNotifier,
		settleTrainingUseCase,
		settlementQueue,
		metricsCollector,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createTraining := createTrainingHandler.NewHandler(trainingSvc, log)
	getTraining := getTrainingHandler.NewHandler(trainingSvc, log)
	updateTrainingPrice := updateTrainingPriceHandler.NewHandler(trainingSvc, log)
	updateTrainingStatus := updateTrainingStatusHandler.NewHandler(trainingSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(trainingSvc, log)
	completeTraining := completeTrainingHandler.NewHandler(completeTrainingUseCase, log)
	cancelTraining := cancelTrainingHandler.NewHandler(cancelTrainingUseCase, log)
	createRequests := createRequestsHandler.NewHandler(createRequestsUseCase, log)
	transitionRequest := transitionRequestHandler.NewHandler(transitionRequestUseCase, log)
	listRequests := listRequestsHandler.NewHandler(requestSvc, log)
	getRequest := getRequestHandler.NewHandler(requestSvc, log)
	getRequestEvents := getRequestEventsHandler.NewHandler(requestSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты API требуют X-User-ID и X-User-Role
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Тренинги ---
	api.HandleFunc("/trainings", createTraining.Handle).Methods(http.MethodPost)
	api.HandleFunc("/trainings/{trainingId}", getTraining.Handle).Methods(http.MethodGet)
	api.HandleFunc("/trainings/{trainingId}/price", updateTrainingPrice.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/trainings/{trainingId}/status", updateTrainingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/trainings/{trainingId}/complete", completeTraining.Handle).Methods(http.MethodPost)
	api.HandleFunc("/trainings/{trainingId}/cancel", cancelTraining.Handle).Methods(http.MethodPost)
	api.HandleFunc("/trainings/{trainingId}/invoice", getInvoice.Handle).Methods(http.MethodGet)

	// --- Заявки и переговоры ---
	api.HandleFunc("/trainings/{trainingId}/requests", createRequests.Handle).Methods(http.MethodPost)
	api.HandleFunc("/requests", listRequests.Handle).Methods(http.MethodGet)
	api.HandleFunc("/requests/{requestId}", getRequest.Handle).Methods(http.MethodGet)
	api.HandleFunc("/requests/{requestId}/events", getRequestEvents.Handle).Methods(http.MethodGet)
	api.HandleFunc("/requests/{requestId}/transitions", transitionRequest.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(cfg.CORS.AllowedOrigins)(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
