package rabbitmq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recrutment/hireai/internal/contracts/audit"
	mq "github.com/recrutment/hireai/internal/messaging/rabbitmq"
)

type mockHandler struct{ mock.Mock }

func (m *mockHandler) Handle(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

type ackRecorder struct {
	mu      sync.Mutex
	acks    []uint64
	nacks   []uint64
	rejects []uint64
}

func (a *ackRecorder) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *ackRecorder) Nack(tag uint64, _ bool, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, tag)
	return nil
}

func (a *ackRecorder) Reject(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejects = append(a.rejects, tag)
	return nil
}

func newTestConsumer(h Handler, logs *bytes.Buffer) *Consumer {
	return NewConsumer(Config{Topology: mq.DefaultTopology()}, h, zerolog.New(logs))
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		RoutingKey:   audit.RoutingKeyUser,
		Body:         []byte(body),
	}
}

func TestHandleDelivery_AcksOnSuccess(t *testing.T) {
	t.Parallel()

	h := &mockHandler{}
	h.On("Handle", mock.Anything, []byte(`{"eventType":"X"}`)).Return(nil).Once()

	var logs bytes.Buffer
	c := newTestConsumer(h, &logs)
	ack := &ackRecorder{}

	c.handleDelivery(context.Background(), delivery(ack, 7, `{"eventType":"X"}`))

	h.AssertExpectations(t)
	assert.Equal(t, []uint64{7}, ack.acks)
	assert.Empty(t, ack.nacks)
	assert.Empty(t, ack.rejects)
}

func TestHandleDelivery_MalformedIsAckedAndLogged(t *testing.T) {
	t.Parallel()

	h := &mockHandler{}
	h.On("Handle", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: bad", audit.ErrMalformed)).Once()

	var logs bytes.Buffer
	c := newTestConsumer(h, &logs)
	ack := &ackRecorder{}

	c.handleDelivery(context.Background(), delivery(ack, 1, `not-json`))

	assert.Equal(t, []uint64{1}, ack.acks, "malformed messages are dropped, not redelivered")
	assert.Empty(t, ack.nacks)

	out := logs.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"payload":"not-json"`)
	assert.Contains(t, out, `"result":"malformed"`)
}

func TestHandleDelivery_StoreFailureIsAckedAndLogged(t *testing.T) {
	t.Parallel()

	h := &mockHandler{}
	h.On("Handle", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	var logs bytes.Buffer
	c := newTestConsumer(h, &logs)
	ack := &ackRecorder{}

	c.handleDelivery(context.Background(), delivery(ack, 3, `{"eventType":"ROLE_UPDATE"}`))

	assert.Equal(t, []uint64{3}, ack.acks)
	assert.Empty(t, ack.nacks)
	assert.Empty(t, ack.rejects)
	assert.Contains(t, logs.String(), `"result":"store_error"`)
	assert.Contains(t, logs.String(), "ROLE_UPDATE")
}

func TestHandleDelivery_HandlerContextHasDeadline(t *testing.T) {
	t.Parallel()

	h := &mockHandler{}
	h.On("Handle", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(nil).Once()

	var logs bytes.Buffer
	c := newTestConsumer(h, &logs)
	c.handleDelivery(context.Background(), delivery(&ackRecorder{}, 1, `{}`))

	h.AssertExpectations(t)
}

func TestNewConsumer_Defaults(t *testing.T) {
	t.Parallel()

	c := NewConsumer(Config{Topology: mq.DefaultTopology()}, &mockHandler{}, zerolog.Nop())
	assert.Equal(t, 1, c.cfg.Prefetch)
	assert.Equal(t, "audit-service", c.cfg.Tag)
	assert.Positive(t, c.cfg.HandleTimeout)
}

func TestStart_RejectsInvalidSetup(t *testing.T) {
	t.Parallel()

	c := NewConsumer(Config{Topology: mq.DefaultTopology()}, nil, zerolog.Nop())
	require.Error(t, c.Start(context.Background()))

	c = NewConsumer(Config{Topology: mq.Topology{}}, &mockHandler{}, zerolog.Nop())
	require.Error(t, c.Start(context.Background()))
}

func TestStop_WhenNotRunning(t *testing.T) {
	t.Parallel()

	c := NewConsumer(Config{Topology: mq.DefaultTopology()}, &mockHandler{}, zerolog.Nop())
	assert.NoError(t, c.Stop(context.Background()))
	assert.False(t, c.Ready())
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateString("  abc  ", 10))
	assert.Equal(t, "ab...", truncateString("abcdef", 2))
}
