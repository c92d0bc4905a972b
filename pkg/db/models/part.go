package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Part is the catalog entry ordered parts and pool rows reference.
// Aliases holds the alternate vendor names a part gets quoted under.
type Part struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Unit      string         `gorm:"column:unit;not null;default:'pcs'"`
	Aliases   pq.StringArray `gorm:"column:aliases;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
