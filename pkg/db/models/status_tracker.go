package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusTracker is the append-only audit trail of order transitions.
// Rows are never updated or deleted.
type StatusTracker struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	StatusID  uuid.UUID `gorm:"column:status_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Status *Status `gorm:"foreignKey:StatusID"`
}
