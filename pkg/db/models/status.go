package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is a workflow step. Gate predicates key off Name, never the id;
// the name is the semantic contract.
type Status struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
