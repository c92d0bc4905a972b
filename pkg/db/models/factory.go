package models

import (
	"time"

	"github.com/google/uuid"
)

// Factory is a physical plant with its own storage and machines.
type Factory struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Abbreviation string    `gorm:"column:abbreviation"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
