package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gearbook/internal/notifier"
	"gearbook/pkg/config"
	"gearbook/pkg/kafka"
	kafka_config "gearbook/pkg/kafka/config"
	kafka_middleware "gearbook/pkg/kafka/middleware"
)

const (
	ServiceName = "notifier"
	GroupID     = "gearbook-notifier"
)

func main() {
	cfg := config.Load(ServiceName)

	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("Notifier requires Kafka; set KAFKA_ENABLED=true")
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}

	handler := notifier.New(cfg.Log)
	consumer, err := kafka.NewConsumer(kcfg, cfg.EventsTopic, GroupID, cfg.EventsDLQTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting Notifier service", "topic", cfg.EventsTopic, "group_id", GroupID)
	if err := consumer.Start(ctx); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
