package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) WithTx(tx *gorm.DB) *MachineRepository {
	return &MachineRepository{db: tx}
}

func (r *MachineRepository) Get(machineID, partID uuid.UUID) (*models.MachinePart, error) {
	var row models.MachinePart
	err := r.db.Where("machine_id = ? AND part_id = ?", machineID, partID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByMachine returns every part installed on one machine.
func (r *MachineRepository) ListByMachine(machineID uuid.UUID) ([]models.MachinePart, error) {
	var rows []models.MachinePart
	err := r.db.Where("machine_id = ?", machineID).Order("part_id ASC").Find(&rows).Error
	return rows, err
}

// Credit installs quantity onto a machine, creating the row on first use.
func (r *MachineRepository) Credit(machineID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.MachinePart{}).
		Where("machine_id = ? AND part_id = ?", machineID, partID).
		Update("qty", gorm.Expr("qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.Create(&models.MachinePart{
		MachineID: machineID,
		PartID:    partID,
		Qty:       qty,
	}).Error
}

// Debit removes installed quantity, guarded against going negative.
func (r *MachineRepository) Debit(machineID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("debit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.MachinePart{}).
		Where("machine_id = ? AND part_id = ? AND qty >= ?", machineID, partID, qty).
		Update("qty", gorm.Expr("qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientQuantity,
			fmt.Sprintf("machine pool cannot supply %d units", qty)).
			WithDetails(map[string]any{"machine_id": machineID, "part_id": partID, "qty": qty})
	}
	return nil
}

// CreditDefective flags installed parts as defective without changing the
// installed count, creating the row on first use.
func (r *MachineRepository) CreditDefective(machineID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.MachinePart{}).
		Where("machine_id = ? AND part_id = ?", machineID, partID).
		Update("defective_qty", gorm.Expr("defective_qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.Create(&models.MachinePart{
		MachineID:    machineID,
		PartID:       partID,
		DefectiveQty: qty,
	}).Error
}

// DebitDefective clears defective flags once replacements arrive.
func (r *MachineRepository) DebitDefective(machineID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("debit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.MachinePart{}).
		Where("machine_id = ? AND part_id = ? AND defective_qty >= ?", machineID, partID, qty).
		Update("defective_qty", gorm.Expr("defective_qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientQuantity,
			fmt.Sprintf("machine defective pool cannot supply %d units", qty)).
			WithDetails(map[string]any{"machine_id": machineID, "part_id": partID, "qty": qty})
	}
	return nil
}
