package workflow

import "github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"

// Status names are the semantic contract the gate predicates key off.
// They must match the seeded statuses table exactly.
const (
	StatusPending             = "Pending"
	StatusOfficeReview        = "Office Review"
	StatusWaitingForQuotation = "Waiting for Quotation"
	StatusQuotationReview     = "Quotation Review"
	StatusPurchasing          = "Purchasing"
	StatusShipping            = "Shipping"
	StatusReceiving           = "Receiving"
	StatusTransferring        = "Transferring"
	StatusCompleted           = "Completed"
)

// AnchorStatusName is the single status a revert always returns to.
// Reverting to an arbitrary prior status is not supported.
const AnchorStatusName = StatusWaitingForQuotation

var purchaseSequence = []string{
	StatusPending,
	StatusOfficeReview,
	StatusWaitingForQuotation,
	StatusQuotationReview,
	StatusPurchasing,
	StatusShipping,
	StatusReceiving,
	StatusCompleted,
}

// DefaultSequences mirrors the seeded workflow_statuses rows. The catalog is
// immutable; orders always traverse their type's sequence in order.
var DefaultSequences = map[enums.OrderType][]string{
	enums.OrderTypePFM: purchaseSequence,
	enums.OrderTypePFS: purchaseSequence,
	enums.OrderTypePFP: purchaseSequence,
	enums.OrderTypeSTM: {
		StatusPending,
		StatusTransferring,
		StatusCompleted,
	},
	enums.OrderTypeSTP: {
		StatusPending,
		StatusTransferring,
		StatusReceiving,
		StatusCompleted,
	},
}
