package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
)

// Workflow is the immutable ordered status sequence for one order type.
type Workflow struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderType enums.OrderType  `gorm:"column:order_type;uniqueIndex;not null"`
	Name      string           `gorm:"column:name;not null"`
	Statuses  []WorkflowStatus `gorm:"foreignKey:WorkflowID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// WorkflowStatus pins a status at a position within a workflow. Positions
// are dense and start at 1; the first position is the initial status and
// the last is terminal.
type WorkflowStatus struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkflowID uuid.UUID `gorm:"column:workflow_id;type:uuid;not null;uniqueIndex:ux_workflow_statuses_position,priority:1"`
	StatusID   uuid.UUID `gorm:"column:status_id;type:uuid;not null"`
	Position   int       `gorm:"column:position;not null;uniqueIndex:ux_workflow_statuses_position,priority:2"`
	Status     *Status   `gorm:"foreignKey:StatusID"`
}
