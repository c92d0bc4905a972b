package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectComponentPart records parts credited to a project component on
// receipt of a project order.
type ProjectComponentPart struct {
	ProjectComponentID uuid.UUID        `gorm:"column:project_component_id;type:uuid;primaryKey"`
	PartID             uuid.UUID        `gorm:"column:part_id;type:uuid;primaryKey"`
	Qty                int              `gorm:"column:qty;not null;default:0"`
	TotalCost          *decimal.Decimal `gorm:"column:total_cost;type:numeric(14,4)"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
