package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/contracts/audit"
)

const defaultPublishTimeout = 2 * time.Second

var (
	errUnroutable = errors.New("rabbitmq unroutable")
	errNack       = errors.New("rabbitmq nack")
	errClosed     = errors.New("rabbitmq confirm channel closed")
)

// Publisher emits audit events on the topic exchange with publisher confirms.
// Publish never returns an error: failures are logged and counted so that callers
// are never failed by the audit path.
type Publisher struct {
	url      string
	topo     Topology
	producer string
	timeout  time.Duration
	log      zerolog.Logger

	now   func() time.Time
	newID func() string

	// send and dial are the transport steps; replaced in tests.
	send func(ctx context.Context, routingKey, messageID string, body []byte) error
	dial func() error

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

type Option func(*Publisher)

func WithExchange(name string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.topo.Exchange = name
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Publisher) { p.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

func newPublisher(url, producer string, opts ...Option) *Publisher {
	p := &Publisher{
		url:      url,
		topo:     DefaultTopology(),
		producer: producer,
		timeout:  defaultPublishTimeout,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.send = p.publishConfirmed
	p.dial = p.connect
	return p
}

// NewPublisher builds a publisher and tries to dial the broker and declare the
// exchange. A failed dial is logged, not returned: the service starts anyway and
// the next Publish re-dials. producer is stamped on events that do not name one.
func NewPublisher(url, producer string, opts ...Option) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	p := newPublisher(url, producer, opts...)
	if err := p.topo.Validate(); err != nil {
		return nil, err
	}
	p.log = p.log.With().Str("component", "audit_publisher").Str("exchange", p.topo.Exchange).Logger()
	p.start()
	return p, nil
}

func (p *Publisher) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dial(); err != nil {
		p.log.Warn().Err(err).Msg("broker unreachable at startup, will retry on publish")
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// Publish fills eventId, occurredAt and producer when absent and emits evt under routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, evt audit.Event) {
	evt = p.prepare(evt)

	body, err := json.Marshal(evt)
	if err != nil {
		publishFailures.WithLabelValues(routingKey, "marshal").Inc()
		p.log.Error().Err(err).
			Str("routing_key", routingKey).
			Str("event_id", evt.EventID).
			Str("event_type", evt.EventType).
			Msg("audit event marshal failed, dropped")
		return
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.send(ctx, routingKey, evt.EventID, body); err != nil {
		publishFailures.WithLabelValues(routingKey, failureReason(err)).Inc()
		p.log.Error().Err(err).
			Str("routing_key", routingKey).
			Str("event_id", evt.EventID).
			Str("event_type", evt.EventType).
			Msg("audit event publish failed, dropped")
		return
	}

	eventsPublished.WithLabelValues(routingKey).Inc()
	p.log.Debug().
		Str("routing_key", routingKey).
		Str("event_id", evt.EventID).
		Str("event_type", evt.EventType).
		Msg("audit event published")
}

func (p *Publisher) prepare(evt audit.Event) audit.Event {
	if evt.EventID == "" {
		evt.EventID = p.newID()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = p.now().UTC()
	}
	if evt.Producer == "" {
		evt.Producer = p.producer
	}
	return evt
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errUnroutable):
		return "unroutable"
	case errors.Is(err, errNack):
		return "nack"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "transport"
	}
}

// ---- transport ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := p.topo.DeclareExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.resetConn()
	return p.dial()
}

func (p *Publisher) publishConfirmed(ctx context.Context, routingKey, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Drain stale confirms / returns left by an earlier timed-out publish.
drain:
	for {
		select {
		case <-p.confirmCh:
		case <-p.returnCh:
		default:
			break drain
		}
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.topo.Exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    p.now(),
			Body:         body,
		},
	); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case ret := <-p.returnCh:
		return fmt.Errorf("%w: key=%s code=%d text=%s", errUnroutable, routingKey, ret.ReplyCode, ret.ReplyText)

	case conf, ok := <-p.confirmCh:
		if !ok {
			p.resetConn()
			return errClosed
		}
		// basic.return precedes the ack on the wire but lands on a separate Go channel.
		select {
		case ret := <-p.returnCh:
			return fmt.Errorf("%w: key=%s code=%d text=%s", errUnroutable, routingKey, ret.ReplyCode, ret.ReplyText)
		default:
		}
		if !conf.Ack {
			return fmt.Errorf("%w: key=%s deliveryTag=%d", errNack, routingKey, conf.DeliveryTag)
		}
		return nil

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// NoopPublisher drops every event. Used in dev when no broker is configured.
type NoopPublisher struct {
	Log zerolog.Logger
}

func (n NoopPublisher) Publish(_ context.Context, routingKey string, evt audit.Event) {
	n.Log.Debug().Str("routing_key", routingKey).Str("event_type", evt.EventType).Msg("audit publish skipped (noop)")
}
