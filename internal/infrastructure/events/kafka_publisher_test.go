package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/Stockmaster-api/internal/infrastructure/events"
)

type fakeProducer struct {
	msgs []kafkago.Message
	err  error
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_EscribeEventoConKeyYTraza(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	prod := &fakeProducer{}
	pub := events.NewKafkaPublisher(prod, nil)
	evt := inventory.OperationValidatedEvent{
		OperationID:   "op-1",
		Reference:     "delivery/0007",
		OperationType: "delivery",
		ValidatedBy:   "u-1",
		ValidatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, pub.PublishOperationValidated(ctx, evt))

	require.Len(t, prod.msgs, 1)
	msg := prod.msgs[0]
	assert.Equal(t, "delivery/0007", string(msg.Key))
	assert.Equal(t, events.OperationValidated, header(msg, events.EventTypeHeader))
	assert.Contains(t, header(msg, "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	var got inventory.OperationValidatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "op-1", got.OperationID)
}

func TestKafkaPublisher_PropagaErrorDelProducer(t *testing.T) {
	pub := events.NewKafkaPublisher(&fakeProducer{err: errors.New("broker caído")}, nil)
	err := pub.PublishOperationValidated(context.Background(), inventory.OperationValidatedEvent{Reference: "receipt/0001"})
	assert.ErrorContains(t, err, "broker caído")
}
