package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/yani-rivera/UrbanGrowthSDG11/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler функция-обработчик для полученных сообщений.
// Пакет сам решает, как делать ack/nack/requeue по возвращенной ошибке.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer запускает обработку каждого сообщения в отдельной горутине
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

// NewDistributingConsumer создает нового потребителя
func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	c := &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
	}

	return c, nil
}

// StartConsuming начинает потребление сообщений и блокируется до отмены
// контекста или закрытия соединения
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	if c.baseConsumer.channel == nil || c.baseConsumer.connection == nil || c.baseConsumer.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected. Please create a new consumer or ensure connection is stable")
	}

	msgs, err := c.baseConsumer.channel.Consume(
		c.baseConsumer.actualQueueName, // Используем актуальное имя очереди
		c.baseConsumer.config.ConsumerTag,
		false, // auto-ack
		c.baseConsumer.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w", c.baseConsumer.config.ConsumerTag, c.baseConsumer.actualQueueName, err)
	}

	c.baseConsumer.Logger.Info("[*] Waiting for messages on queue", "queue_name", c.baseConsumer.actualQueueName)

	// Горутина-диспетчер: читает из канала RabbitMQ и распределяет работу
	go func() {
		for {
			// Приоритетная, неблокирующая проверка на отмену, чтобы не запустить
			// нового обработчика после команды на остановку
			select {
			case <-ctx.Done():
				c.baseConsumer.Logger.Info("(Priority Check) Context cancelled for consumer. Exiting consumption loop.",
					"consumer_tag", c.baseConsumer.config.ConsumerTag)
				return
			default:
			}

			// Блокирующее ожидание нового сообщения или отмены
			select {
			case <-ctx.Done():
				c.baseConsumer.Logger.Info("(Wait Check) Context cancelled for consumer. Exiting consumption loop.",
					"consumer_tag", c.baseConsumer.config.ConsumerTag)
				return

			case d, ok := <-msgs:
				if !ok {
					c.baseConsumer.Logger.Info("Deliveries channel closed by RabbitMQ for consumer. Exiting loop.",
						"consumer_tag", c.baseConsumer.config.ConsumerTag)
					return
				}

				// Запускаем обработчик для каждого сообщения в новой горутине
				c.baseConsumer.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer c.baseConsumer.wg.Done()

					c.baseConsumer.Logger.Info("[->] Started processing message",
						"consumer_tag", c.baseConsumer.config.ConsumerTag,
						"delivery_tag", delivery.DeliveryTag)

					processErr := c.handler(delivery)

					if processErr == nil {
						_ = delivery.Ack(false)
						c.baseConsumer.Logger.Info("[+] Message Ack'd",
							"consumer_tag", c.baseConsumer.config.ConsumerTag,
							"delivery_tag", delivery.DeliveryTag)
						return
					}

					c.baseConsumer.Logger.Error(processErr, "Handler error for message",
						"consumer_tag", c.baseConsumer.config.ConsumerTag,
						"delivery_tag", delivery.DeliveryTag)

					if !c.baseConsumer.config.EnableRetryMechanism {
						c.baseConsumer.Logger.Info("Retry disabled. Nacking message without requeue.",
							"consumer_tag", c.baseConsumer.config.ConsumerTag)
						_ = delivery.Nack(false, false)
						return
					}

					// Считаем, сколько раз сообщение уже умирало
					deathCount := c.baseConsumer.getDeathCount(delivery, c.baseConsumer.actualQueueName)

					if deathCount < int64(c.baseConsumer.config.MaxRetries) {
						// Лимит не достигнут, отправляем в цикл ретрая через Nack(requeue=false)
						c.baseConsumer.Logger.Info("Retrying message",
							"consumer_tag", c.baseConsumer.config.ConsumerTag,
							"delivery_tag", delivery.DeliveryTag,
							"death_count", deathCount)
						_ = delivery.Nack(false, false)
					} else {
						// Лимит ретраев исчерпан, публикуем в финальный DLX
						c.baseConsumer.Logger.Info("Max retries reached for message. Publishing to final DLX.",
							"consumer_tag", c.baseConsumer.config.ConsumerTag,
							"delivery_tag", delivery.DeliveryTag)

						err := c.baseConsumer.finalDlxPublisher.Publish(
							context.Background(),
							c.baseConsumer.config.FinalDLQRoutingKey,
							amqp.Publishing{
								ContentType:  delivery.ContentType,
								Body:         delivery.Body,
								Headers:      delivery.Headers,
								Timestamp:    time.Now(),
								DeliveryMode: amqp.Persistent,
							},
						)

						if err != nil {
							c.baseConsumer.Logger.Error(err, "Failed to publish to final DLX. Nacking to trigger retry loop again.",
								"consumer_tag", c.baseConsumer.config.ConsumerTag,
								"delivery_tag", delivery.DeliveryTag)
							_ = delivery.Nack(false, false)
						} else {
							// Успешно опубликовали, теперь подтверждаем оригинал
							c.baseConsumer.Logger.Info("Successfully published to final DLX. Acking original message",
								"consumer_tag", c.baseConsumer.config.ConsumerTag,
								"delivery_tag", delivery.DeliveryTag)
							_ = delivery.Ack(false)
						}
					}
				}(d)
			}
		}
	}()

	// Ждем либо отмены внешнего контекста, либо закрытия соединения
	notifyClose := make(chan *amqp.Error)
	c.baseConsumer.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		// Штатное завершение. Внутренняя горутина тоже увидит ctx.Done()
		c.baseConsumer.Logger.Info("Context cancelled. Shutting down consumer.",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return nil

	case err := <-notifyClose:
		// Соединение было закрыто брокером или другим компонентом
		c.baseConsumer.Logger.Error(err, "Connection closed for consumer.",
			"consumer_tag", c.baseConsumer.config.ConsumerTag)
		return err
	}
}

// Close закрывает соединение потребителя
func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")

	return c.baseConsumer.Close()
}
