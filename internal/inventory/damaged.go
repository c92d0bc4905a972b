package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

type DamagedRepository struct {
	db *gorm.DB
}

func NewDamagedRepository(db *gorm.DB) *DamagedRepository {
	return &DamagedRepository{db: db}
}

func (r *DamagedRepository) WithTx(tx *gorm.DB) *DamagedRepository {
	return &DamagedRepository{db: tx}
}

func (r *DamagedRepository) Get(factoryID, partID uuid.UUID) (*models.DamagedPart, error) {
	var row models.DamagedPart
	err := r.db.Where("factory_id = ? AND part_id = ?", factoryID, partID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *DamagedRepository) ListByFactory(factoryID uuid.UUID) ([]models.DamagedPart, error) {
	var rows []models.DamagedPart
	err := r.db.Where("factory_id = ?", factoryID).Order("part_id ASC").Find(&rows).Error
	return rows, err
}

// Credit moves quantity into a factory's damaged-goods pool.
func (r *DamagedRepository) Credit(factoryID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.DamagedPart{}).
		Where("factory_id = ? AND part_id = ?", factoryID, partID).
		Update("qty", gorm.Expr("qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.Create(&models.DamagedPart{
		FactoryID: factoryID,
		PartID:    partID,
		Qty:       qty,
	}).Error
}

// Debit removes quantity, typically when damaged stock is scrapped or repaired.
func (r *DamagedRepository) Debit(factoryID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("debit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.DamagedPart{}).
		Where("factory_id = ? AND part_id = ? AND qty >= ?", factoryID, partID, qty).
		Update("qty", gorm.Expr("qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientQuantity,
			fmt.Sprintf("damaged pool cannot supply %d units", qty)).
			WithDetails(map[string]any{"factory_id": factoryID, "part_id": partID, "qty": qty})
	}
	return nil
}
