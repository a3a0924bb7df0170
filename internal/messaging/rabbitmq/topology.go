package rabbitmq

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/recrutment/hireai/internal/contracts/audit"
)

// Declarer is the subset of *amqp.Channel used to declare the audit topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Topology is the durable exchange -> queue binding every audit event travels through.
// Declaring it is idempotent: the broker accepts a repeated declaration with identical arguments.
type Topology struct {
	Exchange   string
	Queue      string
	BindingKey string
}

func DefaultTopology() Topology {
	return Topology{
		Exchange:   audit.DefaultExchange,
		Queue:      audit.DefaultQueue,
		BindingKey: audit.BindingPattern,
	}
}

func (t Topology) Validate() error {
	var errs []error
	if t.Exchange == "" {
		errs = append(errs, errors.New("exchange name is empty"))
	}
	if t.Queue == "" {
		errs = append(errs, errors.New("queue name is empty"))
	}
	if t.BindingKey == "" {
		errs = append(errs, errors.New("binding key is empty"))
	}
	return errors.Join(errs...)
}

// DeclareExchange declares only the topic exchange. Producers call this on connect.
func (t Topology) DeclareExchange(ch Declarer) error {
	if err := ch.ExchangeDeclare(
		t.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare %q: %w", t.Exchange, err)
	}
	return nil
}

// Declare creates the exchange, the durable queue and the binding between them.
func (t Topology) Declare(ch Declarer) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid topology: %w", err)
	}
	if err := t.DeclareExchange(ch); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		t.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare %q: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.BindingKey, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind %q -> %q (%s): %w", t.Queue, t.Exchange, t.BindingKey, err)
	}
	return nil
}
