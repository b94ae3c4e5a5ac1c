// Package messaging relays outbox messages to Kafka.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/logger"
)

var ErrNotConnected = errors.New("kafka not connected")

// Producer writes keyed messages to a topic.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// messageWriter is the subset of *kafka.Writer the client uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Client struct {
	mu     sync.RWMutex
	cfg    config.MessagingConfig
	writer messageWriter
}

func NewClient(cfg config.MessagingConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect verifies a broker is reachable, makes sure the quote topic exists
// and prepares the writer.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}

	var conn *kafka.Conn
	var connErr error
	for _, broker := range c.cfg.Kafka.Brokers {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		conn, connErr = kafka.DialContext(dialCtx, "tcp", broker)
		cancel()
		if connErr == nil {
			logger.Info("Kafka connected", "broker", broker)
			break
		}
	}
	if connErr != nil {
		return fmt.Errorf("kafka connect: %w", connErr)
	}
	ensureTopics(conn, c.cfg.QuoteTopic)
	conn.Close()

	c.writer = &kafka.Writer{
		Addr:         kafka.TCP(c.cfg.Kafka.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return nil
}

// Publish writes one message. Messages with the same key keep their order.
func (c *Client) Publish(ctx context.Context, topic, key string, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.writer == nil {
		return ErrNotConnected
	}
	logger.ExternalServiceCall("kafka", "WriteMessages", "topic", topic, "key", key)
	err := c.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	logger.ExternalServiceResult("kafka", "WriteMessages", err, "topic", topic)
	return err
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writer != nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writer == nil {
		return nil
	}
	err := c.writer.Close()
	c.writer = nil
	return err
}

// ensureTopics creates topics through the cluster controller. Failures are
// logged only; brokers with auto.create.topics.enable still work.
func ensureTopics(conn *kafka.Conn, topics ...string) {
	controller, err := conn.Controller()
	if err != nil {
		logger.Warn("Kafka controller lookup failed", "error", err)
		return
	}

	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		logger.Warn("Kafka controller dial failed", "error", err)
		return
	}
	defer controllerConn.Close()

	configs := make([]kafka.TopicConfig, len(topics))
	for i, t := range topics {
		configs[i] = kafka.TopicConfig{Topic: t, NumPartitions: 3, ReplicationFactor: 1}
	}
	if err := controllerConn.CreateTopics(configs...); err != nil {
		logger.Warn("Kafka topic create failed", "topics", topics, "error", err)
		return
	}
	logger.Info("Kafka topics ensured", "topics", topics)
}
