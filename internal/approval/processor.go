// Package approval reconciles inventory pools when an order leaves its
// initial pending status. Each order type moves quantities differently;
// the whole batch runs inside one transaction so a failing line item
// leaves every pool untouched.
package approval

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/internal/machines"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

// stmLessTransfersAsNormal keeps storage-to-machine LESS lines crediting
// the machine like a plain transfer, while purchase-for-machine LESS lines
// route to the damaged pool like INACTIVE. The two behaviors diverge in
// production today; do not unify them without product sign-off.
const stmLessTransfersAsNormal = true

type Processor struct {
	storage     *inventory.StorageRepository
	machineInv  *inventory.MachineRepository
	damaged     *inventory.DamagedRepository
	machineRepo *machines.Repository
}

func NewProcessor(
	storage *inventory.StorageRepository,
	machineInv *inventory.MachineRepository,
	damaged *inventory.DamagedRepository,
	machineRepo *machines.Repository,
) *Processor {
	return &Processor{
		storage:     storage,
		machineInv:  machineInv,
		damaged:     damaged,
		machineRepo: machineRepo,
	}
}

// Reconcile applies the order-type-specific pool movements for every line
// item of an order. It must be called exactly once, on the advance out of
// the initial status, inside the same transaction that persists the status
// change.
func (p *Processor) Reconcile(tx *gorm.DB, order models.Order, items []models.OrderLineItem) error {
	storage := p.storage.WithTx(tx)
	machineInv := p.machineInv.WithTx(tx)
	damaged := p.damaged.WithTx(tx)
	machineRepo := p.machineRepo.WithTx(tx)

	switch order.OrderType {
	case enums.OrderTypePFM:
		return p.reconcilePFM(machineInv, damaged, machineRepo, order, items)
	case enums.OrderTypeSTM:
		return p.reconcileSTM(storage, machineInv, damaged, machineRepo, order, items)
	case enums.OrderTypePFS, enums.OrderTypePFP:
		// Purchases touch no pool until receipt.
		return nil
	case enums.OrderTypeSTP:
		return p.reconcileSTP(storage, order, items)
	default:
		return pkgerrors.New(pkgerrors.CodeUnknownOrderType,
			fmt.Sprintf("order type %q has no reconciliation routine", order.OrderType)).
			WithDetails(map[string]any{"order_id": order.ID})
	}
}

// reconcilePFM handles replacement purchases for a machine: the old part
// leaves the machine now, and its replacement arrives at receipt.
func (p *Processor) reconcilePFM(
	machineInv *inventory.MachineRepository,
	damaged *inventory.DamagedRepository,
	machineRepo *machines.Repository,
	order models.Order,
	items []models.OrderLineItem,
) error {
	machineID, err := requireMachine(order)
	if err != nil {
		return err
	}

	stopMachine := false
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		switch enums.Normalize(item.UnstableType) {
		case enums.UnstableTypeInactive:
			if err := machineInv.Debit(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
			if err := damaged.Credit(order.FactoryID, item.PartID, item.Qty); err != nil {
				return err
			}
			stopMachine = true
		case enums.UnstableTypeDefective:
			if err := machineInv.CreditDefective(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
			if err := machineInv.Debit(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
		case enums.UnstableTypeLess:
			if err := machineInv.Debit(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
			if err := damaged.Credit(order.FactoryID, item.PartID, item.Qty); err != nil {
				return err
			}
		}
	}

	if stopMachine {
		return machineRepo.MarkNotRunning(machineID)
	}
	return nil
}

// reconcileSTM handles transfers out of a source factory's storage onto a
// machine. Every line debits source storage; where the part lands depends
// on its declared handling mode.
func (p *Processor) reconcileSTM(
	storage *inventory.StorageRepository,
	machineInv *inventory.MachineRepository,
	damaged *inventory.DamagedRepository,
	machineRepo *machines.Repository,
	order models.Order,
	items []models.OrderLineItem,
) error {
	machineID, err := requireMachine(order)
	if err != nil {
		return err
	}
	srcFactoryID := sourceFactory(order)

	stopMachine := false
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		if err := storage.Debit(srcFactoryID, item.PartID, item.Qty); err != nil {
			return err
		}
		switch enums.Normalize(item.UnstableType) {
		case enums.UnstableTypeInactive:
			// The part goes straight to damaged goods, never reaching
			// the machine.
			if err := damaged.Credit(order.FactoryID, item.PartID, item.Qty); err != nil {
				return err
			}
			stopMachine = true
		case enums.UnstableTypeDefective:
			// Installed anyway, flagged for replacement.
			if err := machineInv.CreditDefective(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
			if err := machineInv.Credit(machineID, item.PartID, item.Qty); err != nil {
				return err
			}
		case enums.UnstableTypeLess:
			if stmLessTransfersAsNormal {
				if err := machineInv.Credit(machineID, item.PartID, item.Qty); err != nil {
					return err
				}
			} else {
				if err := damaged.Credit(order.FactoryID, item.PartID, item.Qty); err != nil {
					return err
				}
			}
		}
	}

	if stopMachine {
		return machineRepo.MarkNotRunning(machineID)
	}
	return nil
}

// reconcileSTP debits the source factory's storage when a project transfer
// is approved; the project component ledger is credited at receipt.
func (p *Processor) reconcileSTP(storage *inventory.StorageRepository, order models.Order, items []models.OrderLineItem) error {
	srcFactoryID := sourceFactory(order)
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		if err := storage.Debit(srcFactoryID, item.PartID, item.Qty); err != nil {
			return err
		}
	}
	return nil
}

func requireMachine(order models.Order) (uuid.UUID, error) {
	if order.MachineID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"machine-affecting order has no machine assigned").
			WithDetails(map[string]any{"order_id": order.ID})
	}
	return *order.MachineID, nil
}

func sourceFactory(order models.Order) uuid.UUID {
	if order.SrcFactoryID != nil {
		return *order.SrcFactoryID
	}
	return order.FactoryID
}
