package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yani-rivera/UrbanGrowthSDG11/internal/constants"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/contextkeys"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/domain"
	"github.com/yani-rivera/UrbanGrowthSDG11/internal/core/port"
	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ParsedRecordsEnqueueAdapter отправляет разобранные и провалидированные
// записи следующему этапу конвейера
type ParsedRecordsEnqueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewParsedRecordsEnqueueAdapter создает новый экземпляр
func NewParsedRecordsEnqueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ParsedRecordsEnqueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &ParsedRecordsEnqueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Enqueue публикует пачку записей одним событием parsed-listings
func (a *ParsedRecordsEnqueueAdapter) Enqueue(ctx context.Context, records []domain.ParsedRecord, ingestionID uuid.UUID) error {

	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ParsedRecordsEnqueueAdapter",
		"routing_key": a.routingKey,
	})

	if len(records) == 0 {
		adapterLogger.Info("No records to enqueue, skipping publish", nil)
		return nil
	}

	eventDTO := ParsedListingsEventDTO{
		Agency:      records[0].Agency,
		Date:        records[0].Date,
		IngestionID: ingestionID.String(),
		Records:     make([]ParsedRecordDTO, 0, len(records)),
	}
	for _, r := range records {
		eventDTO.Records = append(eventDTO.Records, toParsedRecordDTO(r))
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal parsed listings event to JSON", err, nil)
		return fmt.Errorf("failed to marshal parsed listings event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    constants.EventTypeParsedListings,
			"event-version": constants.EventVersionV1,
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish parsed listings event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published parsed listings event", port.Fields{"record_count": len(records)})
	return nil
}
