package models

import (
	"time"

	"github.com/google/uuid"
)

// DamagedPart is a factory's damaged-goods pool for one part.
type DamagedPart struct {
	FactoryID uuid.UUID `gorm:"column:factory_id;type:uuid;primaryKey"`
	PartID    uuid.UUID `gorm:"column:part_id;type:uuid;primaryKey"`
	Qty       int       `gorm:"column:qty;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
