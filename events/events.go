// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package events publishes domain events after successful mutations.
//
// Publishing is best effort: callers log a failed publish and carry on.
// Kafka delivery sits behind a circuit breaker.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/danielhkuo/pos-backoffice/metrics"
	"github.com/danielhkuo/pos-backoffice/models"
)

// Publisher delivers events. Implementations are safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.Event) error { return nil }
func (Nop) Close() error                                 { return nil }

// BreakerConfig controls when the breaker opens and how long it stays open.
type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig trips after 5 consecutive failures and probes again after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second, MaxRequests: 1}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON events to one topic, keyed by entity id.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewKafkaPublisher creates a synchronous writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, cfg BreakerConfig) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaPublisher(w, topic, cfg), nil
}

func newKafkaPublisher(w messageWriter, topic string, cfg BreakerConfig) *KafkaPublisher {
	logger := slog.Default().With("component", "kafka-publisher", "topic", topic)
	settings := gobreaker.Settings{
		Name:        "kafka:" + topic,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}
	return &KafkaPublisher{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.EntityID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(event.Type)},
			},
		})
	})
	if err != nil {
		return fmt.Errorf("publishing %s: %w", event.Type, err)
	}
	p.logger.Debug("event published", "type", event.Type, "entity_id", event.EntityID)
	return nil
}

// State reports the breaker state (closed, half-open, open).
func (p *KafkaPublisher) State() string {
	return p.breaker.State().String()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Instrumented counts publish results on m.
type Instrumented struct {
	next    Publisher
	metrics *metrics.Metrics
}

func NewInstrumented(next Publisher, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (p *Instrumented) Publish(ctx context.Context, event models.Event) error {
	err := p.next.Publish(ctx, event)
	p.metrics.EventPublished(event.Type, err)
	return err
}

func (p *Instrumented) Close() error {
	return p.next.Close()
}
