package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

const publishTimeout = 3 * time.Second

// MessageWriter часть *kafka.Writer, которой пользуется Publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher отправляет события бронирований в Kafka.
// Ключ сообщения - ID тенанта, поэтому события одного бизнеса идут в одну партицию по порядку.
// Ошибка отправки только логируется: бронирование к этому моменту уже зафиксировано.
type Publisher struct {
	writer  MessageWriter
	metrics *metrics.Metrics
	logger  Logger
}

// NewKafkaPublisher создает издателя поверх kafka.Writer
func NewKafkaPublisher(brokers []string, topic string, m *metrics.Metrics, logger Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: publishTimeout,
	}
	return NewPublisher(writer, m, logger)
}

// NewPublisher создает издателя с произвольным writer (используется в тестах)
func NewPublisher(writer MessageWriter, m *metrics.Metrics, logger Logger) *Publisher {
	return &Publisher{writer: writer, metrics: m, logger: logger}
}

// Publish отправляет событие. Отмена запроса не прерывает отправку.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("EventBus: marshal %s reservation=%d: %v", event.Type, event.ReservationID, err)
		p.observe(event.Type, "error")
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TenantID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error("EventBus: publish %s reservation=%d failed: %v", event.Type, event.ReservationID, err)
		p.observe(event.Type, "error")
		return
	}

	p.observe(event.Type, "ok")
}

// Close сбрасывает буфер и закрывает соединения
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("eventbus: close writer: %w", err)
	}
	return nil
}

func (p *Publisher) observe(eventType EventType, result string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(string(eventType), result).Inc()
	}
}

// NopPublisher используется, когда отправка событий выключена
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

func (NopPublisher) Close() error { return nil }
