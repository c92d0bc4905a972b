// Package projects credits received project orders to their project
// component part ledgers.
package projects

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Get(componentID, partID uuid.UUID) (*models.ProjectComponentPart, error) {
	var row models.ProjectComponentPart
	err := r.db.Where("project_component_id = ? AND part_id = ?", componentID, partID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByComponent(componentID uuid.UUID) ([]models.ProjectComponentPart, error) {
	var rows []models.ProjectComponentPart
	err := r.db.Where("project_component_id = ?", componentID).Order("part_id ASC").Find(&rows).Error
	return rows, err
}

// CreditComponent runs Credit inside the caller's transaction. It is the
// completion delegate for received project orders.
func (r *Repository) CreditComponent(tx *gorm.DB, componentID, partID uuid.UUID, qty int, unitCost *decimal.Decimal) error {
	return r.WithTx(tx).Credit(componentID, partID, qty, unitCost)
}

// Credit adds received quantity to a component's part ledger and rolls the
// spend into its running total cost when the receipt carried a unit cost.
func (r *Repository) Credit(componentID, partID uuid.UUID, qty int, unitCost *decimal.Decimal) error {
	if qty <= 0 {
		return fmt.Errorf("credit qty must be positive, got %d", qty)
	}
	existing, err := r.Get(componentID, partID)
	if err != nil {
		return err
	}

	var spend *decimal.Decimal
	if unitCost != nil {
		total := unitCost.Mul(decimal.NewFromInt(int64(qty)))
		spend = &total
	}

	if existing == nil {
		return r.db.Create(&models.ProjectComponentPart{
			ProjectComponentID: componentID,
			PartID:             partID,
			Qty:                qty,
			TotalCost:          spend,
		}).Error
	}

	updates := map[string]any{"qty": gorm.Expr("qty + ?", qty)}
	if spend != nil {
		if existing.TotalCost != nil {
			combined := existing.TotalCost.Add(*spend)
			updates["total_cost"] = combined
		} else {
			updates["total_cost"] = *spend
		}
	}
	return r.db.Model(&models.ProjectComponentPart{}).
		Where("project_component_id = ? AND part_id = ?", componentID, partID).
		Updates(updates).Error
}
