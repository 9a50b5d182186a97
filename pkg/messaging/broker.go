// Package messaging defines the event fan-out contract used by the outbox
// worker. Downstream consumers (notification services, reporting) subscribe
// to per-event-type channels.
package messaging

import (
	"context"
	"encoding/json"
	"strings"
)

// Message is the wire envelope published for every outbox event. Payload is
// the raw JSON written by the producing service, passed through untouched.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Broker publishes messages to named channels and hands out subscriptions.
type Broker interface {
	Publish(ctx context.Context, channel string, msg Message) error
	Subscribe(ctx context.Context, channel string) (<-chan Message, error)
	Close() error
}

// Channel maps an outbox event type to its broker channel name.
func Channel(eventType string) string {
	return "oncall.events." + strings.ToLower(eventType)
}
