package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	logger_adapter "github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/logger"
	postgres_adapter "github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/postgres"
	rabbitmq_adapter "github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/rabbitmq"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/rest"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/rulesets"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/adapters/textparser"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/configs"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/constants"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/usecase"
	fluentlogger "github.com/yani-rivera/UrbanGrowthSDG11/pkg/fluent_logger"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/postgres"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_common"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort

	// Входящий порт (слушатель событий)
	rawBatchListener port.EventListenerPort

	// HTTP-сервер QA-эндпоинтов
	apiServer *rest.Server
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentLogger, err := logger_adapter.NewFluentLoggerAdapter(
			fluentClient,
			parseLogLevel(appConfig.FluentBit.Level),
		)
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit logger adapter", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit logger adapter: %w", err)
		}
		activeLoggers = append(activeLoggers, fluentLogger)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multilogger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger initialized", nil)

	// --- 2. ИНИЦИАЛИЗАЦИЯ ИНФРАСТРУКТУРЫ ---
	rmqLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(
		baseLogger.WithFields(port.Fields{"component": "rabbitmq"}),
	)

	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, rmqLoggerBridge)
	if err != nil {
		appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
		return nil, fmt.Errorf("failed to create RabbitMQ connection manager: %w", err)
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("PostgreSQL pool initialized", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             "parser_exchange",
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rmqLoggerBridge,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, nil)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}

	// --- 3. ИНИЦИАЛИЗАЦИЯ АДАПТЕРОВ И ПРАВИЛ ---
	rulesetProvider, err := rulesets.NewProviderFromDir(appConfig.Parser.RulesetsDir)
	if err != nil {
		appLogger.Error("Failed to load rulesets", err, nil)
		return nil, fmt.Errorf("failed to load rulesets from %q: %w", appConfig.Parser.RulesetsDir, err)
	}
	appLogger.Info("Rulesets loaded", port.Fields{"agencies": rulesetProvider.Agencies()})

	parserFactory := func(rs *domain.Ruleset) (port.ListingParserPort, error) {
		return textparser.NewAdapter(rs)
	}

	recordStorage, err := postgres_adapter.NewRecordBatchStorageAdapter(dbPool)
	if err != nil {
		return nil, fmt.Errorf("failed to create record storage adapter: %w", err)
	}

	recordsEnqueue, err := rabbitmq_adapter.NewParsedRecordsEnqueueAdapter(
		eventProducer,
		constants.RoutingKeyParsedListings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parsed records enqueue adapter: %w", err)
	}

	// --- 4. ИНИЦИАЛИЗАЦИЯ USE CASES ---
	parseBatchUC := usecase.NewParseBatchUseCase(rulesetProvider, parserFactory, appConfig.Parser.WorkerCount)
	validateTypeUC := usecase.NewValidatePropertyTypeUseCase(appConfig.Parser.WorkerCount)
	validateTxUC := usecase.NewValidateTransactionUseCase(appConfig.Parser.WorkerCount)

	// --- 5. ИНИЦИАЛИЗАЦИЯ ВХОДЯЩИХ АДАПТЕРОВ ---
	rawBatchConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:               rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:            constants.QueueRawListingBatches,
		RoutingKeyForBind:    constants.RoutingKeyRawListingBatches,
		ExchangeNameForBind:  "parser_exchange",
		PrefetchCount:        5,
		DurableQueue:         true,
		ConsumerTag:          appConfig.AppName + "_raw_batches_consumer",
		DeclareQueue:         true,
		EnableRetryMechanism: true,
		RetryExchange:        constants.QueueRawListingBatches + "_retry_ex",
		RetryQueue:           constants.QueueRawListingBatches + "_retry_wait_10s",
		RetryTTL:             10000,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           3,
		Logger:               rmqLoggerBridge,
	}

	rawBatchListener, err := rabbitmq_adapter.NewRawBatchConsumerAdapter(
		rawBatchConsumerCfg,
		parseBatchUC,
		validateTypeUC,
		validateTxUC,
		rulesetProvider,
		recordStorage,
		recordsEnqueue,
		baseLogger.WithFields(port.Fields{"component": "raw_batch_consumer"}),
		connManager,
	)
	if err != nil {
		appLogger.Error("Failed to create raw batch consumer", err, nil)
		return nil, fmt.Errorf("failed to create raw batch consumer: %w", err)
	}

	parseHandler := rest.NewParseHandler(parseBatchUC, validateTypeUC, validateTxUC, rulesetProvider)
	apiServer := rest.NewServer(strconv.Itoa(appConfig.REST.Port), parseHandler, baseLogger)

	application := &App{
		config:           appConfig,
		dbPool:           dbPool,
		connManager:      connManager,
		eventProducer:    eventProducer,
		fluentClient:     fluentClient,
		logger:           appLogger,
		rawBatchListener: rawBatchListener,
		apiServer:        apiServer,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Единый контекст приложения для graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		// Ждем завершения всех запущенных горутин (слушателей)
		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		// Теперь безопасно закрываем ресурсы
		if a.rawBatchListener != nil {
			if err := a.rawBatchListener.Close(); err != nil {
				a.logger.Error("Error closing raw batch listener", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	// Функция-хелпер для запуска слушателей
	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Raw Listing Batches Listener", a.rawBatchListener)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.REST.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
