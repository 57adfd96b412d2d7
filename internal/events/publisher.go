package events

import (
	"context"

	"gearbook/pkg/config"
	"gearbook/pkg/kafka"
	kafka_config "gearbook/pkg/kafka/config"
	kafka_middleware "gearbook/pkg/kafka/middleware"
	"gearbook/pkg/logger"
)

// Publisher emits domain events. Services depend on this interface so
// tests can capture events and Kafka-less deployments can run on the
// no-op implementation.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

// NewPublisher builds a Kafka-backed publisher when the config enables
// Kafka, otherwise a no-op one. Publishing failures are logged and
// swallowed: an event is a side effect of a committed write, and the
// write must not be rolled back because the broker hiccuped.
func NewPublisher(cfg *config.Config, serviceName string) (Publisher, error) {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, domain events will not be published")
		return NopPublisher{}, nil
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(kcfg, cfg.EventsTopic, cfg.EventsDLQTopic)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka event publisher initialized", "topic", cfg.EventsTopic)
	return &kafkaPublisher{producer: producer, source: serviceName, log: cfg.Log}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()
	if err != nil {
		p.log.Error("Failed to build event message", "event_type", eventType, "key", key, "error", err)
		return nil
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
