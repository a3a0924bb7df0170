// Package audit holds the wire contract for audit events shared by every
// producer and the audit consumer.
package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Exchange and routing.
const (
	DefaultExchange = "recruitment.events"
	DefaultQueue    = "audit-service.audit-events"
	BindingPattern  = "audit.*"

	RoutingKeyUser = "audit.user"
	RoutingKeyJob  = "audit.job"
)

// Event types emitted by the platform. Consumers must accept any other value.
const (
	TypeRoleUpdate  = "ROLE_UPDATE"
	TypeUserBlock   = "USER_BLOCK"
	TypeUserUnblock = "USER_UNBLOCK"
	TypeUserDelete  = "USER_DELETE"
	TypeJobCreated  = "JOB_CREATED"
	TypeJobUpdated  = "JOB_UPDATED"
)

const (
	TargetUser = "USER"
	TargetJob  = "JOB"

	// ActorSystem is recorded when an event carries no acting user.
	ActorSystem = "SYSTEM"
)

var ErrMalformed = errors.New("malformed audit event")

// Event is the message body published on the audit exchange.
// Keep fields tolerant: unknown fields are ignored and every field may be absent.
type Event struct {
	EventID       string         `json:"eventId,omitempty"`
	EventType     string         `json:"eventType,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
	Producer      string         `json:"producer,omitempty"`
	Actor         *Actor         `json:"actor,omitempty"`
	Target        *Target        `json:"target,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Changes       map[string]any `json:"changes,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	CorrelationID string         `json:"correlationId,omitempty"`
}

type Actor struct {
	UserID string   `json:"userId,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

type Target struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Change is the conventional shape of one entry in Event.Changes.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Decode parses a message body. Only bodies that are not a single JSON object
// fail; missing fields are left zero for the consumer to default. Numbers inside
// changes and payload decode as json.Number so they re-encode digit for digit.
func Decode(body []byte) (Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Event{}, fmt.Errorf("%w: body is not a json object", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var evt Event
	if err := dec.Decode(&evt); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Event{}, fmt.Errorf("%w: trailing data after json object", ErrMalformed)
	}
	return evt, nil
}
