package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contracts"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port/usecases_port"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_common"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RawBatchConsumerAdapter - входящий адаптер, который слушает очередь
// с сырыми газетными полосами и прогоняет каждую через конвейер:
// разбор, валидация типа, валидация сделки, сохранение, публикация
type RawBatchConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer

	parseUC    usecases_port.ParseBatchPort
	typeUC     usecases_port.ValidatePropertyTypePort
	txUC       usecases_port.ValidateTransactionPort
	rulesets   port.RulesetProviderPort
	storage    port.RecordStoragePort
	recordsOut port.ParsedRecordsQueuePort

	logger port.LoggerPort
}

// NewRawBatchConsumerAdapter создает новый адаптер
func NewRawBatchConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	parseUC usecases_port.ParseBatchPort,
	typeUC usecases_port.ValidatePropertyTypePort,
	txUC usecases_port.ValidateTransactionPort,
	rulesets port.RulesetProviderPort,
	storage port.RecordStoragePort,
	recordsOut port.ParsedRecordsQueuePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*RawBatchConsumerAdapter, error) {

	adapter := &RawBatchConsumerAdapter{
		parseUC:    parseUC,
		typeUC:     typeUC,
		txUC:       txUC,
		rulesets:   rulesets,
		storage:    storage,
		recordsOut: recordsOut,
		logger:     logger,
	}

	// Логгер для pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for raw listing batches: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler обрабатывает одно сообщение. Одно сообщение - одна полоса.
// Ошибка возвращается только при нарушении контракта или отказе
// инфраструктуры; содержимое объявлений ошибок не порождает
func (a *RawBatchConsumerAdapter) messageHandler(d amqp.Delivery) error {

	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"adapter_name": "RawBatchConsumerAdapter",
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	// Валидация по схеме
	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return err
	}

	var dto RawListingBatchDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("failed to unmarshal raw listing batch DTO: %w", err)
	}

	ingestionID, err := uuid.Parse(dto.IngestionID)
	if err != nil {
		// Провенанс не обязателен во входном событии, генерируем свой
		ingestionID = uuid.New()
	}

	batchLogger := msgLogger.WithFields(port.Fields{
		"agency":       dto.Agency,
		"date":         dto.Date,
		"ingestion_id": ingestionID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)

	batchLogger.Info("Received raw listing batch", port.Fields{"line_count": len(dto.Lines)})

	batch := domain.ListingBatch{
		Agency: dto.Agency,
		Date:   dto.Date,
		Lines:  dto.Lines,
	}

	records, err := a.parseUC.Execute(ctx, batch, ingestionID)
	if err != nil {
		batchLogger.Error("Parse pipeline failed", err, nil)
		return err
	}

	rs, err := a.rulesets.Get(dto.Agency)
	if err != nil {
		batchLogger.Error("No ruleset for agency in batch", err, nil)
		return err
	}

	// Долларовые цены стандартизации не требуют
	for i := range records {
		if records[i].PriceUSD == nil && records[i].Currency != nil && *records[i].Currency == "USD" {
			records[i].PriceUSD = records[i].Price
		}
	}

	diags, err := a.typeUC.Execute(ctx, rs, records)
	if err != nil {
		batchLogger.Error("Property type validation failed", err, nil)
		return err
	}

	if err := a.txUC.Execute(ctx, rs, records); err != nil {
		batchLogger.Error("Transaction validation failed", err, nil)
		return err
	}

	stats, err := a.storage.BatchSave(ctx, records, diags)
	if err != nil {
		batchLogger.Error("BatchSave failed, the message will be retried.", err, nil)
		return err
	}

	if err := a.recordsOut.Enqueue(ctx, records, ingestionID); err != nil {
		batchLogger.Error("Failed to enqueue parsed records, the message will be retried.", err, nil)
		return err
	}

	batchLogger.Info("Raw listing batch processed successfully", port.Fields{
		"records_saved":     stats.Records,
		"diagnostics_saved": stats.Diagnostics,
	})
	return nil
}

// Start реализует EventListenerPort, запуская прослушивание очереди
func (a *RawBatchConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort, корректно останавливая консьюмера
func (a *RawBatchConsumerAdapter) Close() error {
	return a.consumer.Close()
}
