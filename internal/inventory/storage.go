// Package inventory is the data layer for the factory inventory pools:
// storage stock, machine-installed parts, damaged goods, and project
// component credits. Debits are guarded at the SQL level so a pool can
// never go negative, even under concurrent reconciliation.
package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

type StorageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

func (r *StorageRepository) WithTx(tx *gorm.DB) *StorageRepository {
	return &StorageRepository{db: tx}
}

// Get returns the storage row for a factory/part pair, or nil when the
// factory has never stocked the part.
func (r *StorageRepository) Get(factoryID, partID uuid.UUID) (*models.StoragePart, error) {
	var row models.StoragePart
	err := r.db.Where("factory_id = ? AND part_id = ?", factoryID, partID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List pages a factory's storage pool ordered by part id.
func (r *StorageRepository) List(factoryID uuid.UUID, afterPartID *uuid.UUID, limit int) ([]models.StoragePart, error) {
	q := r.db.Where("factory_id = ?", factoryID).
		Order("part_id ASC").
		Limit(pagination.NormalizeLimit(limit))
	if afterPartID != nil {
		q = q.Where("part_id > ?", *afterPartID)
	}
	var rows []models.StoragePart
	err := q.Find(&rows).Error
	return rows, err
}

// Credit adds quantity to a pool without touching its average price,
// creating the row on first contact.
func (r *StorageRepository) Credit(factoryID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.StoragePart{}).
		Where("factory_id = ? AND part_id = ?", factoryID, partID).
		Update("qty", gorm.Expr("qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.Create(&models.StoragePart{
		FactoryID: factoryID,
		PartID:    partID,
		Qty:       qty,
	}).Error
}

// CreditAveraged adds a priced receipt to a pool, folding the unit cost
// into the running weighted average. Must run inside the caller's
// transaction so the read-modify-write is atomic.
func (r *StorageRepository) CreditAveraged(factoryID, partID uuid.UUID, qty int, unitCost decimal.Decimal) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	existing, err := r.Get(factoryID, partID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(&models.StoragePart{
			FactoryID: factoryID,
			PartID:    partID,
			Qty:       qty,
			AvgPrice:  &unitCost,
		}).Error
	}

	avg := unitCost
	if existing.Qty > 0 {
		if existing.AvgPrice == nil {
			return pkgerrors.New(pkgerrors.CodeMissingBaselineAverage,
				"storage pool holds stock with no average price").
				WithDetails(map[string]any{"factory_id": factoryID, "part_id": partID})
		}
		avg = WeightedAverage(existing.Qty, *existing.AvgPrice, qty, unitCost)
	}
	return r.db.Model(&models.StoragePart{}).
		Where("factory_id = ? AND part_id = ?", factoryID, partID).
		Updates(map[string]any{
			"qty":       gorm.Expr("qty + ?", qty),
			"avg_price": avg,
		}).Error
}

// Debit removes quantity from a pool. The WHERE clause carries the
// balance check so a concurrent debit can never drive the pool negative;
// zero rows affected means the stock was not there.
func (r *StorageRepository) Debit(factoryID, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("debit qty must be positive, got %d", qty)
	}
	res := r.db.Model(&models.StoragePart{}).
		Where("factory_id = ? AND part_id = ? AND qty >= ?", factoryID, partID, qty).
		Update("qty", gorm.Expr("qty - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientQuantity,
			fmt.Sprintf("storage pool cannot supply %d units", qty)).
			WithDetails(map[string]any{"factory_id": factoryID, "part_id": partID, "qty": qty})
	}
	return nil
}
