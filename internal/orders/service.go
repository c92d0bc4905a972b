// Package orders orchestrates the procurement order lifecycle: creation,
// workflow advancement with approval reconciliation, reverts to the
// quotation anchor, and every per-line-item action.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/gates"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/outbox"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

// Service defines every order and line-item operation the transport layer
// exposes.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, *pagination.Cursor, error)
	ListTracker(ctx context.Context, orderID uuid.UUID) ([]models.StatusTracker, error)
	Advance(ctx context.Context, input AdvanceInput) (*models.Status, error)
	Revert(ctx context.Context, input RevertInput) (*models.Status, error)
	Delete(ctx context.Context, orderID, actorID uuid.UUID) error

	Approve(ctx context.Context, input ApproveInput) error
	ApproveAll(ctx context.Context, input ApproveAllInput) error
	SetQuotation(ctx context.Context, input QuotationInput) error
	TakeFromStorage(ctx context.Context, input TakeFromStorageInput) error
	SetDate(ctx context.Context, input SetDateInput) error
	SetQuantity(ctx context.Context, input SetQuantityInput) error
	SetUnstableType(ctx context.Context, input SetUnstableTypeInput) error
	SetNote(ctx context.Context, input SetNoteInput) error
	RequestSample(ctx context.Context, input SampleInput) error
	ApproveSample(ctx context.Context, input SampleInput) error
	DeleteLineItem(ctx context.Context, input DeleteLineItemInput) error
	VisibleActions(ctx context.Context, lineItemID uuid.UUID) ([]gates.Action, error)
}

type service struct {
	repo      Repository
	workflows workflow.Repository
	storage   *inventory.StorageRepository
	tx        txRunner
	outbox    outboxPublisher
	approval  approvalReconciler
	receipt   receiptCompleter
	logg      *logger.Logger
}

// NewService builds the order service with its required collaborators.
func NewService(
	repo Repository,
	workflows workflow.Repository,
	storage *inventory.StorageRepository,
	tx txRunner,
	outboxSvc outboxPublisher,
	approvalProc approvalReconciler,
	receiptProc receiptCompleter,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil || workflows == nil || storage == nil || tx == nil {
		return nil, fmt.Errorf("orders service missing persistence dependencies")
	}
	if outboxSvc == nil || approvalProc == nil || receiptProc == nil {
		return nil, fmt.Errorf("orders service missing processor dependencies")
	}
	return &service{
		repo:      repo,
		workflows: workflows,
		storage:   storage,
		tx:        tx,
		outbox:    outboxSvc,
		approval:  approvalProc,
		receipt:   receiptProc,
		logg:      logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	seq, err := s.workflows.FindByOrderType(ctx, input.OrderType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load workflow")
	}
	initial := seq.Initial()
	if initial == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "workflow has no statuses")
	}

	order := &models.Order{
		OrderType:          input.OrderType,
		WorkflowID:         seq.WorkflowID,
		CurrentStatusID:    initial.ID,
		FactoryID:          input.FactoryID,
		MachineID:          input.MachineID,
		SrcFactoryID:       input.SrcFactoryID,
		ProjectComponentID: input.ProjectComponentID,
		CreatedBy:          input.ActorID,
		Note:               input.Note,
	}
	items := make([]models.OrderLineItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, models.OrderLineItem{
			PartID:       in.PartID,
			Qty:          in.Qty,
			InStorage:    in.InStorage,
			UnstableType: in.UnstableType,
			Stage:        enums.ProcurementStageUnquoted,
			Note:         in.Note,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order, items); err != nil {
			return err
		}
		if err := repo.AppendTracker(ctx, models.StatusTracker{
			OrderID:  order.ID,
			ActorID:  input.ActorID,
			StatusID: initial.ID,
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			OrderID:       order.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, FactoryID: &input.FactoryID},
			Data: OrderCreatedEvent{
				OrderID:   order.ID,
				OrderType: order.OrderType,
				FactoryID: order.FactoryID,
				StatusID:  initial.ID,
				ItemCount: len(items),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, "order created")
	return s.repo.FindByID(ctx, order.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Order, *pagination.Cursor, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListTracker(ctx context.Context, orderID uuid.UUID) ([]models.StatusTracker, error) {
	return s.repo.ListTracker(ctx, orderID)
}

// Advance moves an order to the next status of its workflow. Leaving the
// initial status triggers the approval reconciliation inside the same
// transaction that records the transition.
func (s *service) Advance(ctx context.Context, input AdvanceInput) (*models.Status, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	seq, err := s.workflows.FindByID(ctx, order.WorkflowID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load workflow")
	}

	currentName, err := statusName(order, seq)
	if err != nil {
		return nil, err
	}
	if !gates.StatusActionsComplete(order.LineItems, currentName) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("line items have unfinished actions at %q", currentName))
	}
	next, err := seq.NextStatus(order.CurrentStatusID)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already at its terminal status")
	}

	leavingInitial := seq.IsInitial(order.CurrentStatusID)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if leavingInitial {
			if err := s.approval.Reconcile(tx, *order, order.LineItems); err != nil {
				return err
			}
		}
		return s.transition(ctx, tx, order, next, input.ActorID, enums.EventOrderStatusChanged, currentName)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "status", next.Name), "order advanced")
	return next, nil
}

// Revert returns an order to the quotation anchor. Blocked as soon as any
// line item has been purchased, sent, or received.
func (s *service) Revert(ctx context.Context, input RevertInput) (*models.Status, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	seq, err := s.workflows.FindByID(ctx, order.WorkflowID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load workflow")
	}

	currentName, err := statusName(order, seq)
	if err != nil {
		return nil, err
	}
	anchor := seq.FindByName(workflow.AnchorStatusName)
	if anchor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "workflow has no revert anchor")
	}
	if !statusAfter(seq, order.CurrentStatusID, anchor.ID) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot revert from %q", currentName))
	}
	if !workflow.RevertAllowed(order.LineItems) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"cannot revert once a line item has been purchased, sent, or received")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.transition(ctx, tx, order, anchor, input.ActorID, enums.EventOrderReverted, currentName)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, "order reverted to quotation")
	return anchor, nil
}

func (s *service) Delete(ctx context.Context, orderID, actorID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, order.ID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDeleted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			OrderID:       order.ID,
			Actor:         actorRef(actorID),
			Data:          OrderDeletedEvent{OrderID: order.ID},
		})
	})
}

// transition persists the status change and its audit entry atomically and
// announces it through the outbox.
func (s *service) transition(
	ctx context.Context,
	tx *gorm.DB,
	order *models.Order,
	target *models.Status,
	actorID uuid.UUID,
	eventType enums.OutboxEventType,
	fromName string,
) error {
	repo := s.repo.WithTx(tx)
	if err := repo.UpdateStatus(ctx, order.ID, target.ID); err != nil {
		return err
	}
	if err := repo.AppendTracker(ctx, models.StatusTracker{
		OrderID:  order.ID,
		ActorID:  actorID,
		StatusID: target.ID,
	}); err != nil {
		return err
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		OrderID:       order.ID,
		Actor:         actorRef(actorID),
		Data: OrderStatusChangedEvent{
			OrderID:    order.ID,
			FromStatus: order.CurrentStatusID,
			ToStatus:   target.ID,
			FromName:   fromName,
			ToName:     target.Name,
		},
	})
}

func validateCreate(input CreateOrderInput) error {
	if !input.OrderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnknownOrderType,
			fmt.Sprintf("order type %q is not recognized", input.OrderType))
	}
	if input.OrderType.IsMachineAffecting() && input.MachineID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "machine-affecting orders require a machine")
	}
	if input.OrderType.IsStorageSourced() && input.SrcFactoryID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "storage-sourced orders require a source factory")
	}
	if isProjectType(input.OrderType) && input.ProjectComponentID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "project orders require a project component")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line item")
	}
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
	}
	return nil
}

func isProjectType(orderType enums.OrderType) bool {
	return orderType == enums.OrderTypePFP || orderType == enums.OrderTypeSTP
}

// statusName resolves the order's current status through its workflow
// sequence, failing when the status is not a member of the workflow.
func statusName(order *models.Order, seq *workflow.Sequence) (string, error) {
	for _, status := range seq.Statuses {
		if status.ID == order.CurrentStatusID {
			return status.Name, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeUnknownCurrentStatus,
		"current status is not part of the order's workflow").
		WithDetails(map[string]any{"order_id": order.ID, "status_id": order.CurrentStatusID})
}

// statusAfter reports whether current sits strictly after target in the
// workflow sequence.
func statusAfter(seq *workflow.Sequence, currentID, targetID uuid.UUID) bool {
	currentIdx, targetIdx := -1, -1
	for i, status := range seq.Statuses {
		if status.ID == currentID {
			currentIdx = i
		}
		if status.ID == targetID {
			targetIdx = i
		}
	}
	return currentIdx >= 0 && targetIdx >= 0 && currentIdx > targetIdx
}

func actorRef(actorID uuid.UUID) *outbox.ActorRef {
	if actorID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: actorID}
}
