package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
)

// Order is a procurement order. CurrentStatusID must always be a member of
// its workflow's status sequence.
type Order struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderType          enums.OrderType `gorm:"column:order_type;not null"`
	WorkflowID         uuid.UUID       `gorm:"column:workflow_id;type:uuid;not null"`
	CurrentStatusID    uuid.UUID       `gorm:"column:current_status_id;type:uuid;not null"`
	FactoryID          uuid.UUID       `gorm:"column:factory_id;type:uuid;not null"`
	MachineID          *uuid.UUID      `gorm:"column:machine_id;type:uuid"`
	SrcFactoryID       *uuid.UUID      `gorm:"column:src_factory_id;type:uuid"`
	ProjectComponentID *uuid.UUID      `gorm:"column:project_component_id;type:uuid"`
	CreatedBy          uuid.UUID       `gorm:"column:created_by;type:uuid;not null"`
	Note               *string         `gorm:"column:note"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	CurrentStatus *Status         `gorm:"foreignKey:CurrentStatusID"`
	LineItems     []OrderLineItem `gorm:"foreignKey:OrderID"`
}
