package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/contracts/audit"
	mq "github.com/recrutment/hireai/internal/messaging/rabbitmq"
	"github.com/recrutment/hireai/services/audit-service/internal/metrics"
)

const maxLoggedPayload = 4096

// Handler processes one raw message body.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

type Config struct {
	RabbitURL     string
	Topology      mq.Topology
	Prefetch      int
	Tag           string
	HandleTimeout time.Duration
}

// Consumer drains the audit queue. Every delivery is acked: failures are logged with the
// raw body and dropped, never requeued.
type Consumer struct {
	cfg     Config
	handler Handler
	lg      zerolog.Logger

	mu      sync.Mutex
	running bool
	doneCh  chan struct{}

	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func NewConsumer(cfg Config, h Handler, lg zerolog.Logger) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if cfg.Tag == "" {
		cfg.Tag = "audit-service"
	}
	if cfg.HandleTimeout <= 0 {
		cfg.HandleTimeout = 10 * time.Second
	}
	return &Consumer{
		cfg:     cfg,
		handler: h,
		lg:      lg.With().Str("component", "audit_consumer").Str("queue", cfg.Topology.Queue).Logger(),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if c.handler == nil {
		return fmt.Errorf("nil handler")
	}
	if err := c.cfg.Topology.Validate(); err != nil {
		return fmt.Errorf("consumer topology: %w", err)
	}

	c.doneCh = make(chan struct{})
	c.running = true
	go c.run(ctx)
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	doneCh := c.doneCh
	c.running = false
	c.mu.Unlock()

	c.closeConn()

	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the consumer currently holds an open channel.
func (c *Consumer) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && c.ch != nil && !c.ch.IsClosed()
}

func (c *Consumer) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		doneCh := c.doneCh
		c.doneCh = nil
		c.running = false
		c.mu.Unlock()

		if doneCh != nil {
			close(doneCh)
		}
	}()

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.lg.Info().Msg("consumer supervisor exiting (ctx cancelled)")
			return
		default:
		}

		if !c.isRunning() {
			c.lg.Info().Msg("consumer supervisor exiting (stopped)")
			return
		}

		if err := c.connectAndDeclare(); err != nil {
			c.lg.Error().Err(err).Dur("backoff", backoff).Msg("connectAndDeclare failed; retrying")
			if !sleepOrDone(ctx, backoff) {
				return
			}
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 1 * time.Second
		c.lg.Info().Str("exchange", c.cfg.Topology.Exchange).Str("binding", c.cfg.Topology.BindingKey).Msg("consumer started")
		c.consumeLoop(ctx)

		select {
		case <-ctx.Done():
			c.closeConn()
			return
		default:
		}

		c.lg.Warn().Dur("backoff", backoff).Msg("deliveries closed; reconnecting")
		c.closeConn()

		if !sleepOrDone(ctx, backoff) {
			return
		}
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func (c *Consumer) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Consumer) connectAndDeclare() error {
	c.closeConn()

	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("consume channel: %w", err)
	}

	if err := c.cfg.Topology.Declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.Topology.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("consume: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.deliveries = deliveries
	c.mu.Unlock()
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	c.mu.Lock()
	deliveries := c.deliveries
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			c.lg.Info().Msg("consume loop context cancelled")
			return

		case d, ok := <-deliveries:
			if !ok {
				c.lg.Warn().Msg("deliveries channel closed")
				return
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery runs the handler and always acks. There is no dead-letter path:
// a message that cannot be stored is logged in full and dropped.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	start := time.Now()

	hctx, cancel := context.WithTimeout(ctx, c.cfg.HandleTimeout)
	err := c.handler.Handle(hctx, d.Body)
	cancel()

	metrics.IngestLatency.Observe(time.Since(start).Seconds())

	result := metrics.ResultPersisted
	if err != nil {
		result = metrics.ResultStoreError
		if errors.Is(err, audit.ErrMalformed) {
			result = metrics.ResultMalformed
		}
		c.lg.Error().Err(err).
			Str("routing_key", d.RoutingKey).
			Str("message_id", d.MessageId).
			Str("result", result).
			Str("payload", truncateString(string(d.Body), maxLoggedPayload)).
			Msg("audit message dropped")
	} else {
		c.lg.Debug().
			Str("routing_key", d.RoutingKey).
			Dur("took", time.Since(start)).
			Msg("message processed")
	}
	metrics.MessagesConsumed.WithLabelValues(result).Inc()

	if ackErr := d.Ack(false); ackErr != nil {
		c.lg.Error().Err(ackErr).Uint64("delivery_tag", d.DeliveryTag).Msg("ack failed")
	}
}

func (c *Consumer) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.deliveries = nil
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func truncateString(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
