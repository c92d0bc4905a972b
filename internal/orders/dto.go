package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

// CreateOrderInput carries everything needed to open a new order with its
// initial line items.
type CreateOrderInput struct {
	OrderType          enums.OrderType
	FactoryID          uuid.UUID
	MachineID          *uuid.UUID
	SrcFactoryID       *uuid.UUID
	ProjectComponentID *uuid.UUID
	Note               *string
	ActorID            uuid.UUID
	Items              []CreateLineItemInput
}

type CreateLineItemInput struct {
	PartID       uuid.UUID
	Qty          int
	InStorage    bool
	UnstableType *enums.UnstableType
	Note         *string
}

// ListFilter narrows and pages order listings.
type ListFilter struct {
	FactoryID *uuid.UUID
	OrderType *enums.OrderType
	StatusID  *uuid.UUID
	Page      pagination.Params
}

type AdvanceInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
}

type RevertInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
}

// ApprovalKind selects which of the line-item approval flags an approve
// call sets.
type ApprovalKind string

const (
	ApprovalKindPending           ApprovalKind = "pending"
	ApprovalKindOffice            ApprovalKind = "office"
	ApprovalKindBudget            ApprovalKind = "budget"
	ApprovalKindStorageWithdrawal ApprovalKind = "storage_withdrawal"
)

func (k ApprovalKind) IsValid() bool {
	switch k {
	case ApprovalKindPending, ApprovalKindOffice, ApprovalKindBudget, ApprovalKindStorageWithdrawal:
		return true
	}
	return false
}

type ApproveInput struct {
	LineItemID uuid.UUID
	Kind       ApprovalKind
	ActorID    uuid.UUID
}

type ApproveAllInput struct {
	OrderID uuid.UUID
	Kind    ApprovalKind
	ActorID uuid.UUID
}

// QuotationInput records costing on a line item. All three fields must be
// present before the line counts as quoted.
type QuotationInput struct {
	LineItemID uuid.UUID
	Brand      string
	Vendor     string
	UnitCost   decimal.Decimal
	ActorID    uuid.UUID
}

type TakeFromStorageInput struct {
	LineItemID uuid.UUID
	Qty        int
	ActorID    uuid.UUID
}

// DateKind selects which procurement date a date-setting call writes.
type DateKind string

const (
	DateKindPurchased DateKind = "purchased"
	DateKindSent      DateKind = "sent"
	DateKindReceived  DateKind = "received"
)

type SetDateInput struct {
	LineItemID uuid.UUID
	Kind       DateKind
	Date       time.Time
	ActorID    uuid.UUID
}

type SetQuantityInput struct {
	LineItemID uuid.UUID
	Qty        int
	ActorID    uuid.UUID
}

type SetUnstableTypeInput struct {
	LineItemID   uuid.UUID
	UnstableType enums.UnstableType
	ActorID      uuid.UUID
}

type SetNoteInput struct {
	LineItemID uuid.UUID
	Note       *string
	ActorID    uuid.UUID
}

type SampleInput struct {
	LineItemID uuid.UUID
	ActorID    uuid.UUID
}

type DeleteLineItemInput struct {
	LineItemID uuid.UUID
	ActorID    uuid.UUID
}

// Snapshot is the recomputation result consumed by the presentation
// layer to decide which order-level controls to show.
type Snapshot struct {
	OrderID     uuid.UUID `json:"order_id"`
	ShowAdvance bool      `json:"show_advance"`
	ShowRevert  bool      `json:"show_revert"`
	IsComplete  bool      `json:"is_complete"`
	Deleted     bool      `json:"deleted"`
}

// Event payloads persisted through the outbox.

type OrderCreatedEvent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	OrderType enums.OrderType `json:"order_type"`
	FactoryID uuid.UUID       `json:"factory_id"`
	StatusID  uuid.UUID       `json:"status_id"`
	ItemCount int             `json:"item_count"`
}

type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	FromStatus uuid.UUID `json:"from_status"`
	ToStatus   uuid.UUID `json:"to_status"`
	FromName   string    `json:"from_name"`
	ToName     string    `json:"to_name"`
}

type OrderDeletedEvent struct {
	OrderID uuid.UUID `json:"order_id"`
}

type LineItemUpdatedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	LineItemID uuid.UUID `json:"line_item_id"`
	Change     string    `json:"change"`
}

type LineItemReceivedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	LineItemID   uuid.UUID `json:"line_item_id"`
	Qty          int       `json:"qty"`
	ReceivedDate time.Time `json:"received_date"`
}
