package models

import (
	"time"

	"github.com/google/uuid"
)

// MachinePart tracks parts installed on a machine. DefectiveQty counts
// installed parts flagged defective and awaiting replacement.
type MachinePart struct {
	MachineID    uuid.UUID `gorm:"column:machine_id;type:uuid;primaryKey"`
	PartID       uuid.UUID `gorm:"column:part_id;type:uuid;primaryKey"`
	Qty          int       `gorm:"column:qty;not null;default:0"`
	DefectiveQty int       `gorm:"column:defective_qty;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
