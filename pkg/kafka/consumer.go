package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	kafka_config "gearbook/pkg/kafka/config"
	"gearbook/pkg/logger"
)

// MessageHandler processes one consumed message. Returning a
// HandlerError controls retry/DLQ routing; any other error is treated
// as transient.
type MessageHandler func(ctx context.Context, msg Message) error

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

// Consumer wraps a kafka-go reader in a retry loop with DLQ parking
// for permanent failures.
type Consumer struct {
	reader     *kafka.Reader
	dlqWriter  *kafka.Writer
	topic      string
	groupID    string
	maxRetries int
	handler    MessageHandler
	middleware []ConsumerMiddleware
	log        *logger.Logger
	closed     bool
	mu         sync.RWMutex
}

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler MessageHandler, log *logger.Logger) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	consumer := &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			Topic:             topic,
			GroupID:           groupID,
			MinBytes:          cfg.ConsumerMinBytes,
			MaxBytes:          cfg.ConsumerMaxBytes,
			MaxWait:           cfg.ConsumerMaxWait,
			CommitInterval:    cfg.ConsumerCommitInterval,
			HeartbeatInterval: cfg.ConsumerHeartbeatInterval,
			SessionTimeout:    cfg.ConsumerSessionTimeout,
			RebalanceTimeout:  cfg.ConsumerRebalanceTimeout,
			StartOffset:       cfg.ConsumerStartOffset,
		}),
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		handler:    handler,
		log:        log,
	}

	if dlqTopic != "" {
		consumer.dlqWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        dlqTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		}
	}

	return consumer, nil
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Start consumes until ctx is cancelled or the consumer is closed.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("Kafka consumer starting", "topic", c.topic, "group_id", c.groupID)

	for {
		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.mu.RLock()
			closed := c.closed
			c.mu.RUnlock()
			if closed {
				return nil
			}
			c.log.Error("Failed to fetch message", "topic", c.topic, "error", err)
			continue
		}

		msg := fromKafkaMessage(kafkaMsg)
		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("Failed to commit offset",
				"topic", c.topic,
				"offset", kafkaMsg.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg Message) {
	handle := c.handler
	c.mu.RLock()
	chain := c.middleware
	c.mu.RUnlock()

	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		next := handle
		handle = func(ctx context.Context, msg Message) error {
			return mw(ctx, msg, next)
		}
	}

	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff; the commit interval bounds total delay.
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return
			}
		}

		err = handle(ctx, msg)
		if err == nil {
			return
		}

		errType := ClassifyError(err)
		if errType != ErrorTypeTransient {
			if errType == ErrorTypePermanent {
				c.park(ctx, msg, err)
			} else {
				c.log.Warn("Message rejected by handler",
					"topic", c.topic,
					"event_id", msg.GetEventID(),
					"error", err,
				)
			}
			return
		}

		c.log.Warn("Transient handler failure, retrying",
			"topic", c.topic,
			"event_id", msg.GetEventID(),
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.park(ctx, msg, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, err))
}

func (c *Consumer) park(ctx context.Context, msg Message, cause error) {
	if c.dlqWriter == nil {
		c.log.Error("Dropping message, no DLQ configured",
			"topic", c.topic,
			"event_id", msg.GetEventID(),
			"error", cause,
		)
		return
	}

	if msg.Headers == nil {
		msg.Headers = map[string]string{}
	}
	msg.Headers[HeaderOriginalTopic] = c.topic
	msg.Headers[HeaderFailureReason] = cause.Error()
	msg.Headers[HeaderRetryCount] = strconv.Itoa(c.maxRetries)

	if err := c.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		c.log.Error("Failed to park message on DLQ",
			"topic", c.topic,
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return
	}

	c.log.Warn("Message parked on DLQ",
		"topic", c.topic,
		"event_id", msg.GetEventID(),
		"reason", cause.Error(),
	)
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.reader.Close(); err != nil {
		return err
	}
	if c.dlqWriter != nil {
		return c.dlqWriter.Close()
	}
	return nil
}
