package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoragePart tracks a factory's on-hand stock of one part. AvgPrice is the
// running weighted average purchase price; nil until the first costed
// receipt lands.
type StoragePart struct {
	FactoryID uuid.UUID        `gorm:"column:factory_id;type:uuid;primaryKey"`
	PartID    uuid.UUID        `gorm:"column:part_id;type:uuid;primaryKey"`
	Qty       int              `gorm:"column:qty;not null;default:0"`
	AvgPrice  *decimal.Decimal `gorm:"column:avg_price;type:numeric(14,4)"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
