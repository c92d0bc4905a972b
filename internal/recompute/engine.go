package recompute

import (
	"context"

	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/gates"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/orders"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/workflow"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/logger"
)

// orderAccess is the slice of the order service the engine needs.
type orderAccess interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, orderID, actorID uuid.UUID) error
}

// Engine evaluates one order's workflow position: whether it can advance,
// whether it can revert, and whether its current status is complete.
// Orders whose last line item was removed are deleted during the pass.
type Engine struct {
	orders    orderAccess
	workflows workflow.Repository
	logg      *logger.Logger
}

func NewEngine(ordersSvc orderAccess, workflows workflow.Repository, logg *logger.Logger) *Engine {
	return &Engine{orders: ordersSvc, workflows: workflows, logg: logg}
}

// Recompute reloads the order and produces its snapshot.
func (e *Engine) Recompute(ctx context.Context, orderID uuid.UUID) (*orders.Snapshot, error) {
	order, err := e.orders.Get(ctx, orderID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return &orders.Snapshot{OrderID: orderID, Deleted: true}, nil
		}
		return nil, err
	}

	if len(order.LineItems) == 0 {
		if err := e.orders.Delete(ctx, order.ID, uuid.Nil); err != nil {
			return nil, err
		}
		if e.logg != nil {
			e.logg.Info(e.logg.WithOrderID(ctx, order.ID.String()), "empty order removed")
		}
		return &orders.Snapshot{OrderID: orderID, Deleted: true}, nil
	}

	seq, err := e.workflows.FindByID(ctx, order.WorkflowID)
	if err != nil {
		return nil, err
	}
	currentName := ""
	for _, status := range seq.Statuses {
		if status.ID == order.CurrentStatusID {
			currentName = status.Name
			break
		}
	}
	if currentName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownCurrentStatus,
			"current status is not part of the order's workflow")
	}

	isComplete := gates.StatusActionsComplete(order.LineItems, currentName)
	next, err := seq.NextStatus(order.CurrentStatusID)
	if err != nil {
		return nil, err
	}

	return &orders.Snapshot{
		OrderID:     orderID,
		ShowAdvance: isComplete && next != nil,
		ShowRevert:  e.revertVisible(seq, order),
		IsComplete:  isComplete,
	}, nil
}

func (e *Engine) revertVisible(seq *workflow.Sequence, order *models.Order) bool {
	anchor := seq.FindByName(workflow.AnchorStatusName)
	if anchor == nil {
		return false
	}
	anchorIdx, currentIdx := -1, -1
	for i, status := range seq.Statuses {
		if status.ID == anchor.ID {
			anchorIdx = i
		}
		if status.ID == order.CurrentStatusID {
			currentIdx = i
		}
	}
	if anchorIdx < 0 || currentIdx <= anchorIdx {
		return false
	}
	return workflow.RevertAllowed(order.LineItems)
}
