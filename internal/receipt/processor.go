// Package receipt performs the inventory credit owed when a line item's
// received date is set. The caller owns the received-date write and must
// undo it when the credit here fails.
package receipt

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

// ProjectCrediter lands received project-order quantities on a project
// component ledger. Failures gate whether the received date sticks.
type ProjectCrediter interface {
	CreditComponent(tx *gorm.DB, componentID, partID uuid.UUID, qty int, unitCost *decimal.Decimal) error
}

type Processor struct {
	storage    *inventory.StorageRepository
	machineInv *inventory.MachineRepository
	damaged    *inventory.DamagedRepository
	projects   ProjectCrediter
}

func NewProcessor(
	storage *inventory.StorageRepository,
	machineInv *inventory.MachineRepository,
	damaged *inventory.DamagedRepository,
	projects ProjectCrediter,
) *Processor {
	return &Processor{
		storage:    storage,
		machineInv: machineInv,
		damaged:    damaged,
		projects:   projects,
	}
}

// Complete credits the pools for one received line item.
func (p *Processor) Complete(tx *gorm.DB, order models.Order, item models.OrderLineItem) error {
	switch order.OrderType {
	case enums.OrderTypePFS:
		return p.completePFS(tx, order, item)
	case enums.OrderTypePFM:
		return p.completePFM(tx, order, item)
	case enums.OrderTypePFP, enums.OrderTypeSTP:
		return p.completeProject(tx, order, item)
	case enums.OrderTypeSTM:
		// Transfers settle their pools at approval time.
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeUnknownOrderType,
			fmt.Sprintf("order type %q has no completion routine", order.OrderType)).
			WithDetails(map[string]any{"order_id": order.ID, "line_item_id": item.ID})
	}
}

func (p *Processor) completePFS(tx *gorm.DB, order models.Order, item models.OrderLineItem) error {
	if item.UnitCost == nil {
		return missingCost(item)
	}
	return p.storage.WithTx(tx).CreditAveraged(order.FactoryID, item.PartID, item.Qty, *item.UnitCost)
}

// completePFM installs the replacement part. A defective line first
// confirms the flagged part replaced: its defective marker clears and the
// scrapped part moves to damaged goods.
func (p *Processor) completePFM(tx *gorm.DB, order models.Order, item models.OrderLineItem) error {
	if item.UnitCost == nil {
		return missingCost(item)
	}
	if order.MachineID == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"machine-affecting order has no machine assigned").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	machineID := *order.MachineID
	machineInv := p.machineInv.WithTx(tx)

	if item.UnstableType != nil && *item.UnstableType == enums.UnstableTypeDefective {
		if err := machineInv.DebitDefective(machineID, item.PartID, item.Qty); err != nil {
			return err
		}
		if err := p.damaged.WithTx(tx).Credit(order.FactoryID, item.PartID, item.Qty); err != nil {
			return err
		}
	}
	return machineInv.Credit(machineID, item.PartID, item.Qty)
}

func (p *Processor) completeProject(tx *gorm.DB, order models.Order, item models.OrderLineItem) error {
	if order.ProjectComponentID == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"project order has no project component assigned").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	err := p.projects.CreditComponent(tx, *order.ProjectComponentID, item.PartID, item.Qty, item.UnitCost)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDelegateFailure, err,
			"project component credit failed").
			WithDetails(map[string]any{"order_id": order.ID, "line_item_id": item.ID})
	}
	return nil
}

func missingCost(item models.OrderLineItem) error {
	return pkgerrors.New(pkgerrors.CodeMissingCostData,
		"line item has no unit cost").
		WithDetails(map[string]any{"line_item_id": item.ID})
}
