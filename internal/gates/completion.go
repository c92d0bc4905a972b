package gates

import (
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
)

// StatusActionsComplete reports whether every line item of an order has
// finished the work its current status demands, i.e. whether the order is
// eligible to advance. A line fully serviced from storage skips the
// procurement stations entirely.
func StatusActionsComplete(items []models.OrderLineItem, statusName string) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !lineItemDone(item, statusName) {
			return false
		}
	}
	return true
}

func lineItemDone(item models.OrderLineItem, statusName string) bool {
	switch statusName {
	case workflow.StatusPending:
		return item.ApprovedPendingOrder
	case workflow.StatusOfficeReview:
		return item.ApprovedOfficeOrder
	case workflow.StatusWaitingForQuotation:
		return item.Quoted() || item.FulfilledFromStorage()
	case workflow.StatusQuotationReview:
		return item.ApprovedBudget || item.FulfilledFromStorage()
	case workflow.StatusPurchasing:
		return item.PurchasedDate != nil || item.FulfilledFromStorage()
	case workflow.StatusShipping:
		return item.SentDate != nil || item.FulfilledFromStorage()
	case workflow.StatusReceiving:
		return item.ReceivedDate != nil || item.FulfilledFromStorage()
	case workflow.StatusTransferring:
		return item.ApprovedStorageWithdrawal
	default:
		// Completed and any unrecognized status have no further actions,
		// so nothing can satisfy them.
		return false
	}
}
