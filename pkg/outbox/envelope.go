package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActorRef identifies who caused a domain event.
type ActorRef struct {
	UserID    uuid.UUID  `json:"user_id"`
	FactoryID *uuid.UUID `json:"factory_id,omitempty"`
}

// PayloadEnvelope is the persisted wire shape of an outbox payload.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"event_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    uuid.UUID       `json:"order_id"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
