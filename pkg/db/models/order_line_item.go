package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
)

// OrderLineItem is one ordered part within an order. Qty is mutable while
// the order is early in its workflow: taking parts from factory storage
// reduces Qty and grows QtyTakenFromStorage.
type OrderLineItem struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	PartID  uuid.UUID `gorm:"column:part_id;type:uuid;not null"`

	Qty                 int `gorm:"column:qty;not null"`
	QtyTakenFromStorage int `gorm:"column:qty_taken_from_storage;not null;default:0"`

	ApprovedPendingOrder      bool `gorm:"column:approved_pending_order;not null;default:false"`
	ApprovedOfficeOrder       bool `gorm:"column:approved_office_order;not null;default:false"`
	ApprovedBudget            bool `gorm:"column:approved_budget;not null;default:false"`
	ApprovedStorageWithdrawal bool `gorm:"column:approved_storage_withdrawal;not null;default:false"`

	Brand    *string          `gorm:"column:brand"`
	Vendor   *string          `gorm:"column:vendor"`
	UnitCost *decimal.Decimal `gorm:"column:unit_cost;type:numeric(14,4)"`

	InStorage    bool                   `gorm:"column:in_storage;not null;default:false"`
	UnstableType *enums.UnstableType    `gorm:"column:unstable_type"`
	Stage        enums.ProcurementStage `gorm:"column:stage;not null;default:'unquoted'"`

	PurchasedDate *time.Time `gorm:"column:purchased_date"`
	SentDate      *time.Time `gorm:"column:sent_date"`
	ReceivedDate  *time.Time `gorm:"column:received_date"`

	SampleRequested bool `gorm:"column:sample_requested;not null;default:false"`
	SampleApproved  bool `gorm:"column:sample_approved;not null;default:false"`

	Note      *string   `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FulfilledFromStorage reports whether the line was fully serviced out of
// factory storage and no longer needs purchasing.
func (l OrderLineItem) FulfilledFromStorage() bool {
	return l.Qty == 0 && l.QtyTakenFromStorage > 0 && l.ApprovedStorageWithdrawal
}

// Quoted reports whether all costing fields are present.
func (l OrderLineItem) Quoted() bool {
	return l.Brand != nil && l.Vendor != nil && l.UnitCost != nil
}
