// Package events publica operaciones validadas hacia sistemas externos.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/pkg/logger"
)

// EventTypeHeader nombre del header con el tipo de evento.
const EventTypeHeader = "event_type"

// OperationValidated valor de EventTypeHeader para inventory.OperationValidatedEvent.
const OperationValidated = "stock.operation.validated"

// Producer lo mínimo que se necesita de un writer de Kafka.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher serializa el evento en JSON con la referencia como key, de modo que los
// eventos de un mismo documento caen en la misma partición.
type KafkaPublisher struct {
	producer Producer
	log      *logger.Logger
}

// NewKafkaWriter writer por defecto para el topic de operaciones.
func NewKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
}

// NewKafkaPublisher construye el publisher sobre un Producer (normalmente *kafka.Writer).
func NewKafkaPublisher(producer Producer, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{producer: producer, log: log}
}

// PublishOperationValidated escribe el evento e inyecta el contexto de traza en los headers.
func (p *KafkaPublisher) PublishOperationValidated(ctx context.Context, evt inventory.OperationValidatedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	msg := kafkago.Message{
		Key:     []byte(evt.Reference),
		Value:   payload,
		Headers: traceHeaders(ctx),
		Time:    evt.ValidatedAt,
	}
	msg.Headers = append(msg.Headers, kafkago.Header{Key: EventTypeHeader, Value: []byte(OperationValidated)})

	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", evt.Reference, err)
	}
	p.log.Debug().Str("reference", evt.Reference).Msg("evento de validación publicado")
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

func traceHeaders(ctx context.Context) []kafkago.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafkago.Header, 0, len(carrier)+1)
	for _, k := range carrier.Keys() {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(carrier.Get(k))})
	}
	return headers
}
