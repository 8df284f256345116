package interfaces

import (
	"context"
	"time"
)

// EventType identifies a session lifecycle event
type EventType string

const (
	EventAuthenticated    EventType = "account.authenticated"
	EventAccountSwitched  EventType = "account.switched"
	EventLoggedOut        EventType = "account.logged_out"
	EventAccountRemoved   EventType = "account.removed"
	EventSessionRefreshed EventType = "session.refreshed"
	EventSessionLost      EventType = "session.lost"
)

// Event is a session lifecycle notification pushed to the shell UI
type Event struct {
	Type      EventType              `json:"type"`
	AccountID string                 `json:"account_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler processes a published event
type EventHandler func(ctx context.Context, event Event) error

// EventService is a pub/sub fanout for session lifecycle events
type EventService interface {
	Subscribe(eventType EventType, handler EventHandler) error
	Publish(ctx context.Context, event Event) error
	PublishSync(ctx context.Context, event Event) error
}
