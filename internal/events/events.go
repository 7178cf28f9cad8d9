package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

const (
	UserCreated = "user.created"
	UserUpdated = "user.updated"
	UserDeleted = "user.deleted"
)

type Event struct {
	ID         string            `json:"eventId"`
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurredAt"`
	User       models.UserPublic `json:"user"`
}

func NewEvent(eventType string, user models.UserPublic, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: at,
		User:       user,
	}
}

// Publisher hands user lifecycle events to whatever transports them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It stands in when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
