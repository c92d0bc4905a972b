// Package gates holds the pure predicates deciding which line-item actions
// are legal at each workflow status. Predicates are total functions: they
// never error, they only answer yes or no.
package gates

import (
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
)

// Action enumerates every user-triggerable line-item action the UI can show.
type Action string

const (
	ActionApprovePending           Action = "approve_pending"
	ActionApproveOffice            Action = "approve_office"
	ActionEnterQuotation           Action = "enter_quotation"
	ActionApproveBudget            Action = "approve_budget"
	ActionApproveStorageWithdrawal Action = "approve_storage_withdrawal"
	ActionTakeFromStorage          Action = "take_from_storage"
	ActionMarkPurchased            Action = "mark_purchased"
	ActionMarkSent                 Action = "mark_sent"
	ActionMarkReceived             Action = "mark_received"
	ActionEditQuantity             Action = "edit_quantity"
	ActionDeleteLineItem           Action = "delete_line_item"
	ActionSetUnstableType          Action = "set_unstable_type"
	ActionRequestSample            Action = "request_sample"
	ActionApproveSample            Action = "approve_sample"
	ActionEditNote                 Action = "edit_note"
)

// AllActions lists every action in the order the UI renders them.
var AllActions = []Action{
	ActionApprovePending,
	ActionApproveOffice,
	ActionEnterQuotation,
	ActionApproveBudget,
	ActionApproveStorageWithdrawal,
	ActionTakeFromStorage,
	ActionMarkPurchased,
	ActionMarkSent,
	ActionMarkReceived,
	ActionEditQuantity,
	ActionDeleteLineItem,
	ActionSetUnstableType,
	ActionRequestSample,
	ActionApproveSample,
	ActionEditNote,
}

// Visible answers "is this action legal on this line item right now".
func Visible(action Action, orderType enums.OrderType, statusName string, item models.OrderLineItem) bool {
	switch action {
	case ActionApprovePending:
		return CanApprovePending(statusName, item.ApprovedPendingOrder)
	case ActionApproveOffice:
		return CanApproveOffice(statusName, item.ApprovedOfficeOrder)
	case ActionEnterQuotation:
		return CanEnterQuotation(statusName, item.Brand, item.Vendor, item.UnitCost != nil)
	case ActionApproveBudget:
		return CanApproveBudget(statusName, item.ApprovedBudget, item.Qty, item.Vendor, item.Brand)
	case ActionApproveStorageWithdrawal:
		return CanApproveStorageWithdrawal(statusName, item.QtyTakenFromStorage, item.ApprovedStorageWithdrawal)
	case ActionTakeFromStorage:
		return CanTakeFromStorage(statusName, item.InStorage, item.Qty)
	case ActionMarkPurchased:
		return CanMarkPurchased(statusName, item.Stage)
	case ActionMarkSent:
		return CanMarkSent(statusName, item.Stage)
	case ActionMarkReceived:
		return CanMarkReceived(orderType, statusName, item.Stage)
	case ActionEditQuantity:
		return CanEditQuantity(statusName)
	case ActionDeleteLineItem:
		return CanDeleteLineItem(statusName)
	case ActionSetUnstableType:
		return CanSetUnstableType(orderType, statusName)
	case ActionRequestSample:
		return CanRequestSample(statusName, item.SampleRequested)
	case ActionApproveSample:
		return CanApproveSample(statusName, item.SampleRequested, item.SampleApproved)
	case ActionEditNote:
		return CanEditNote(statusName)
	default:
		return false
	}
}

// CanApprovePending gates the factory-side first approval.
func CanApprovePending(statusName string, alreadyApproved bool) bool {
	return statusName == workflow.StatusPending && !alreadyApproved
}

// CanApproveOffice gates the head-office approval.
func CanApproveOffice(statusName string, alreadyApproved bool) bool {
	return statusName == workflow.StatusOfficeReview && !alreadyApproved
}

// CanEnterQuotation allows costing entry while any costing field is missing.
func CanEnterQuotation(statusName string, brand, vendor *string, hasUnitCost bool) bool {
	if statusName != workflow.StatusWaitingForQuotation {
		return false
	}
	return brand == nil || vendor == nil || !hasUnitCost
}

// CanApproveBudget gates the budget sign-off; a line cannot be budget
// approved until it is quoted with a positive quantity.
func CanApproveBudget(statusName string, alreadyApproved bool, qty int, vendor, brand *string) bool {
	return statusName == workflow.StatusQuotationReview &&
		!alreadyApproved &&
		qty > 0 &&
		vendor != nil &&
		brand != nil
}

// CanApproveStorageWithdrawal gates the separate approval path for lines
// serviced out of factory storage.
func CanApproveStorageWithdrawal(statusName string, qtyTakenFromStorage int, alreadyApproved bool) bool {
	if alreadyApproved {
		return false
	}
	switch statusName {
	case workflow.StatusPending, workflow.StatusTransferring:
		return qtyTakenFromStorage > 0 || statusName == workflow.StatusTransferring
	default:
		return false
	}
}

// CanTakeFromStorage allows partially servicing a line from storage while
// the order is still early in its workflow.
func CanTakeFromStorage(statusName string, inStorage bool, qty int) bool {
	switch statusName {
	case workflow.StatusPending, workflow.StatusWaitingForQuotation:
		return inStorage && qty > 0
	default:
		return false
	}
}

// CanMarkPurchased gates the purchased-date entry.
func CanMarkPurchased(statusName string, stage enums.ProcurementStage) bool {
	return statusName == workflow.StatusPurchasing && stage == enums.ProcurementStageQuoted
}

// CanMarkSent gates the sent-date entry; a line must be purchased first.
func CanMarkSent(statusName string, stage enums.ProcurementStage) bool {
	return statusName == workflow.StatusShipping && stage == enums.ProcurementStagePurchased
}

// CanMarkReceived gates the received-date entry. Project transfers never
// pass through purchasing, so STP lines are receivable straight from the
// unquoted stage.
func CanMarkReceived(orderType enums.OrderType, statusName string, stage enums.ProcurementStage) bool {
	if statusName != workflow.StatusReceiving {
		return false
	}
	if orderType == enums.OrderTypeSTP {
		return stage != enums.ProcurementStageReceived
	}
	return stage == enums.ProcurementStageSent
}

// CanEditQuantity allows qty edits only before quotation review locks costs.
func CanEditQuantity(statusName string) bool {
	return statusName == workflow.StatusPending || statusName == workflow.StatusWaitingForQuotation
}

// CanDeleteLineItem allows denying a line only during the approval stages.
func CanDeleteLineItem(statusName string) bool {
	return statusName == workflow.StatusPending || statusName == workflow.StatusOfficeReview
}

// CanSetUnstableType applies only to machine-affecting orders before the
// approval reconciliation has consumed the declared handling mode.
func CanSetUnstableType(orderType enums.OrderType, statusName string) bool {
	return orderType.IsMachineAffecting() && statusName == workflow.StatusPending
}

// CanRequestSample gates requesting a vendor sample during quotation.
func CanRequestSample(statusName string, sampleRequested bool) bool {
	return statusName == workflow.StatusWaitingForQuotation && !sampleRequested
}

// CanApproveSample gates signing off a requested sample.
func CanApproveSample(statusName string, sampleRequested, sampleApproved bool) bool {
	return statusName == workflow.StatusQuotationReview && sampleRequested && !sampleApproved
}

// CanEditNote allows free-text edits anywhere short of the terminal status.
func CanEditNote(statusName string) bool {
	return statusName != workflow.StatusCompleted
}
