// Package events publishes resource notifications to Kafka.
package events

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/segmentio/kafka-go"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/logger"
)

// Notification is the message published for every modifying operation
type Notification struct {
	Resource   string          `json:"resource"`
	Operation  core.Operation  `json:"operation"`
	ResourceID int64           `json:"resource_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	RequestID  string          `json:"request_id,omitempty"`
}

// KafkaNotifier publishes resource notifications to a Kafka topic.
// It implements core.Notifier.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier returns a new KafkaNotifier writing to topic on the given brokers
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Logger:       kafka.LoggerFunc(logger.Default().Debugf),
		ErrorLogger:  kafka.LoggerFunc(logger.Default().Errorf),
	}
	return &KafkaNotifier{writer: writer}
}

// Notify publishes a notification. Errors are logged, not returned; the
// notification stream makes no delivery guarantees.
func (n *KafkaNotifier) Notify(ctx context.Context, resource string, operation core.Operation, resourceID int64, payload []byte) {
	notification := Notification{
		Resource:   resource,
		Operation:  operation,
		ResourceID: resourceID,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
		RequestID:  logger.RequestIDFromContext(ctx),
	}
	message, err := MessageFor(notification)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("Error 6001: marshal notification")
		return
	}
	if err := n.writer.WriteMessages(ctx, message); err != nil {
		logger.FromContext(ctx).WithError(err).Errorf("Error 6002: publish notification for %s %s", operation, resource)
	}
}

// Close flushes pending messages and closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// MessageFor builds the Kafka message for a notification. The message is
// keyed by resource and id so that all notifications for one object land
// in the same partition, in order.
func MessageFor(notification Notification) (kafka.Message, error) {
	value, err := json.Marshal(notification)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(notification.Resource + "/" + strconv.FormatInt(notification.ResourceID, 10)),
		Value: value,
	}, nil
}
