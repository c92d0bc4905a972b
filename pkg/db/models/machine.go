package models

import (
	"time"

	"github.com/google/uuid"
)

// Machine belongs to a factory. IsRunning is flipped off when an approval
// batch flags any of its parts inactive.
type Machine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FactoryID uuid.UUID `gorm:"column:factory_id;type:uuid;not null"`
	Name      string    `gorm:"column:name;not null"`
	IsRunning bool      `gorm:"column:is_running;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
