package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/gates"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
)

// itemContext bundles the loads every line-item action starts from.
type itemContext struct {
	order      *models.Order
	item       *models.OrderLineItem
	statusName string
}

func (s *service) loadItem(ctx context.Context, lineItemID uuid.UUID) (*itemContext, error) {
	item, err := s.repo.FindLineItem(ctx, lineItemID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order status not loaded")
	}
	return &itemContext{order: order, item: item, statusName: order.CurrentStatus.Name}, nil
}

// VisibleActions reports which actions are currently legal on the line
// item, in render order.
func (s *service) VisibleActions(ctx context.Context, lineItemID uuid.UUID) ([]gates.Action, error) {
	ic, err := s.loadItem(ctx, lineItemID)
	if err != nil {
		return nil, err
	}
	visible := make([]gates.Action, 0, len(gates.AllActions))
	for _, action := range gates.AllActions {
		if gates.Visible(action, ic.order.OrderType, ic.statusName, *ic.item) {
			visible = append(visible, action)
		}
	}
	return visible, nil
}

// updateItem persists line-item field changes and announces them, in one
// transaction.
func (s *service) updateItem(ctx context.Context, ic *itemContext, actorID uuid.UUID, change string, fields map[string]any) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateLineItemFields(ctx, ic.item.ID, fields); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLineItemUpdated,
			AggregateType: enums.AggregateOrderLineItem,
			AggregateID:   ic.item.ID,
			OrderID:       ic.order.ID,
			Actor:         actorRef(actorID),
			Data: LineItemUpdatedEvent{
				OrderID:    ic.order.ID,
				LineItemID: ic.item.ID,
				Change:     change,
			},
		})
	})
}

// Approve sets one approval flag on a line item. Approving an already
// approved line is a no-op, which makes bulk approval retries safe.
func (s *service) Approve(ctx context.Context, input ApproveInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown approval kind %q", input.Kind))
	}
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}

	var (
		already bool
		allowed bool
		column  string
	)
	switch input.Kind {
	case ApprovalKindPending:
		already = ic.item.ApprovedPendingOrder
		allowed = gates.CanApprovePending(ic.statusName, already)
		column = "approved_pending_order"
	case ApprovalKindOffice:
		already = ic.item.ApprovedOfficeOrder
		allowed = gates.CanApproveOffice(ic.statusName, already)
		column = "approved_office_order"
	case ApprovalKindBudget:
		already = ic.item.ApprovedBudget
		allowed = gates.CanApproveBudget(ic.statusName, already, ic.item.Qty, ic.item.Vendor, ic.item.Brand)
		column = "approved_budget"
	case ApprovalKindStorageWithdrawal:
		already = ic.item.ApprovedStorageWithdrawal
		allowed = gates.CanApproveStorageWithdrawal(ic.statusName, ic.item.QtyTakenFromStorage, already)
		column = "approved_storage_withdrawal"
	}
	if already {
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("%s approval is not available at %q", input.Kind, ic.statusName))
	}
	return s.updateItem(ctx, ic, input.ActorID, string(input.Kind)+" approved", map[string]any{column: true})
}

// ApproveAll fans the approval out across every line item of the order
// concurrently and reports the aggregate outcome. Writes that succeeded
// before a failure stay applied.
func (s *service) ApproveAll(ctx context.Context, input ApproveAllInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown approval kind %q", input.Kind))
	}
	items, err := s.repo.ListLineItems(ctx, input.OrderID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order has no line items")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
	)
	for _, item := range items {
		wg.Add(1)
		go func(lineItemID uuid.UUID) {
			defer wg.Done()
			err := s.Approve(ctx, ApproveInput{
				LineItemID: lineItemID,
				Kind:       input.Kind,
				ActorID:    input.ActorID,
			})
			if err != nil {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("line item %s: %w", lineItemID, err))
				mu.Unlock()
			}
		}(item.ID)
	}
	wg.Wait()
	return combined
}

func (s *service) SetQuotation(ctx context.Context, input QuotationInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanEnterQuotation(ic.statusName, ic.item.Brand, ic.item.Vendor, ic.item.UnitCost != nil) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quotation entry is not available at %q", ic.statusName))
	}
	if input.Brand == "" || input.Vendor == "" || input.UnitCost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quotation requires brand, vendor, and a non-negative unit cost")
	}

	fields := map[string]any{
		"brand":     input.Brand,
		"vendor":    input.Vendor,
		"unit_cost": input.UnitCost,
	}
	if ic.item.Stage.CanAdvanceTo(enums.ProcurementStageQuoted) {
		fields["stage"] = enums.ProcurementStageQuoted
	}
	return s.updateItem(ctx, ic, input.ActorID, "quotation entered", fields)
}

// TakeFromStorage services part of a line from the factory's own stock:
// the pool is debited and the remaining order quantity shrinks, both in
// one transaction.
func (s *service) TakeFromStorage(ctx context.Context, input TakeFromStorageInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanTakeFromStorage(ic.statusName, ic.item.InStorage, ic.item.Qty) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("take-from-storage is not available at %q", ic.statusName))
	}
	if input.Qty <= 0 || input.Qty > ic.item.Qty {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("take quantity must be between 1 and %d", ic.item.Qty))
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.storage.WithTx(tx).Debit(ic.order.FactoryID, ic.item.PartID, input.Qty); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		err := repo.UpdateLineItemFields(ctx, ic.item.ID, map[string]any{
			"qty":                    gorm.Expr("qty - ?", input.Qty),
			"qty_taken_from_storage": gorm.Expr("qty_taken_from_storage + ?", input.Qty),
		})
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryAdjusted,
			AggregateType: enums.AggregateStoragePart,
			AggregateID:   ic.item.PartID,
			OrderID:       ic.order.ID,
			Actor:         actorRef(input.ActorID),
			Data: LineItemUpdatedEvent{
				OrderID:    ic.order.ID,
				LineItemID: ic.item.ID,
				Change:     fmt.Sprintf("%d taken from storage", input.Qty),
			},
		})
	})
}

func (s *service) SetDate(ctx context.Context, input SetDateInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	switch input.Kind {
	case DateKindPurchased:
		if !gates.CanMarkPurchased(ic.statusName, ic.item.Stage) {
			return dateUnavailable(input.Kind, ic.statusName)
		}
		return s.updateItem(ctx, ic, input.ActorID, "marked purchased", map[string]any{
			"purchased_date": input.Date,
			"stage":          enums.ProcurementStagePurchased,
		})
	case DateKindSent:
		if !gates.CanMarkSent(ic.statusName, ic.item.Stage) {
			return dateUnavailable(input.Kind, ic.statusName)
		}
		if ic.item.PurchasedDate != nil && input.Date.Before(*ic.item.PurchasedDate) {
			return pkgerrors.New(pkgerrors.CodeValidation, "sent date cannot precede the purchased date")
		}
		return s.updateItem(ctx, ic, input.ActorID, "marked sent", map[string]any{
			"sent_date": input.Date,
			"stage":     enums.ProcurementStageSent,
		})
	case DateKindReceived:
		return s.markReceived(ctx, ic, input)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown date kind %q", input.Kind))
	}
}

// markReceived writes the received date, then runs the completion credit.
// When the credit fails the date and stage are put back and the error
// surfaces; the line item keeps all its other values.
func (s *service) markReceived(ctx context.Context, ic *itemContext, input SetDateInput) error {
	if !gates.CanMarkReceived(ic.order.OrderType, ic.statusName, ic.item.Stage) {
		return dateUnavailable(input.Kind, ic.statusName)
	}
	if ic.item.SentDate != nil && input.Date.Before(*ic.item.SentDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "received date cannot precede the sent date")
	}

	prevStage := ic.item.Stage
	err := s.repo.UpdateLineItemFields(ctx, ic.item.ID, map[string]any{
		"received_date": input.Date,
		"stage":         enums.ProcurementStageReceived,
	})
	if err != nil {
		return err
	}

	received := *ic.item
	received.ReceivedDate = &input.Date
	received.Stage = enums.ProcurementStageReceived

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.receipt.Complete(tx, *ic.order, received); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLineItemReceived,
			AggregateType: enums.AggregateOrderLineItem,
			AggregateID:   ic.item.ID,
			OrderID:       ic.order.ID,
			Actor:         actorRef(input.ActorID),
			Data: LineItemReceivedEvent{
				OrderID:      ic.order.ID,
				LineItemID:   ic.item.ID,
				Qty:          ic.item.Qty,
				ReceivedDate: input.Date,
			},
		})
	})
	if err == nil {
		return nil
	}

	resetErr := s.repo.UpdateLineItemFields(ctx, ic.item.ID, map[string]any{
		"received_date": nil,
		"stage":         prevStage,
	})
	if resetErr != nil {
		logCtx := s.logg.WithOrderID(ctx, ic.order.ID.String())
		s.logg.Error(logCtx, "failed to roll back received date", resetErr)
		return multierr.Append(err, resetErr)
	}
	return err
}

func (s *service) SetQuantity(ctx context.Context, input SetQuantityInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanEditQuantity(ic.statusName) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quantity edits are not available at %q", ic.statusName))
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return s.updateItem(ctx, ic, input.ActorID, "quantity changed", map[string]any{"qty": input.Qty})
}

func (s *service) SetUnstableType(ctx context.Context, input SetUnstableTypeInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanSetUnstableType(ic.order.OrderType, ic.statusName) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("handling mode cannot change at %q", ic.statusName))
	}
	if !input.UnstableType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown handling mode %q", input.UnstableType))
	}
	return s.updateItem(ctx, ic, input.ActorID, "handling mode set", map[string]any{"unstable_type": input.UnstableType})
}

func (s *service) SetNote(ctx context.Context, input SetNoteInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanEditNote(ic.statusName) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "notes are frozen on completed orders")
	}
	return s.updateItem(ctx, ic, input.ActorID, "note edited", map[string]any{"note": input.Note})
}

func (s *service) RequestSample(ctx context.Context, input SampleInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanRequestSample(ic.statusName, ic.item.SampleRequested) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("sample requests are not available at %q", ic.statusName))
	}
	return s.updateItem(ctx, ic, input.ActorID, "sample requested", map[string]any{"sample_requested": true})
}

func (s *service) ApproveSample(ctx context.Context, input SampleInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanApproveSample(ic.statusName, ic.item.SampleRequested, ic.item.SampleApproved) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("sample approval is not available at %q", ic.statusName))
	}
	return s.updateItem(ctx, ic, input.ActorID, "sample approved", map[string]any{"sample_approved": true})
}

// DeleteLineItem denies one line. Removing the last line deletes the
// whole order.
func (s *service) DeleteLineItem(ctx context.Context, input DeleteLineItemInput) error {
	ic, err := s.loadItem(ctx, input.LineItemID)
	if err != nil {
		return err
	}
	if !gates.CanDeleteLineItem(ic.statusName) {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("line items cannot be removed at %q", ic.statusName))
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteLineItem(ctx, ic.item.ID); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLineItemDeleted,
			AggregateType: enums.AggregateOrderLineItem,
			AggregateID:   ic.item.ID,
			OrderID:       ic.order.ID,
			Actor:         actorRef(input.ActorID),
			Data: LineItemUpdatedEvent{
				OrderID:    ic.order.ID,
				LineItemID: ic.item.ID,
				Change:     "line item removed",
			},
		}); err != nil {
			return err
		}

		remaining, err := repo.CountLineItems(ctx, ic.order.ID)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		if err := repo.Delete(ctx, ic.order.ID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   ic.order.ID,
			OrderID:       ic.order.ID,
			Actor:         actorRef(input.ActorID),
			Data:          OrderDeletedEvent{OrderID: ic.order.ID},
		})
	})
}

func dateUnavailable(kind DateKind, statusName string) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("%s date cannot be set at %q", kind, statusName))
}
