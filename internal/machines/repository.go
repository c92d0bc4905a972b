// Package machines is the data layer for factory machines.
package machines

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
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

func (r *Repository) FindByID(id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	err := r.db.Where("id = ?", id).First(&machine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "machine not found")
	}
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *Repository) ListByFactory(factoryID uuid.UUID) ([]models.Machine, error) {
	var rows []models.Machine
	err := r.db.Where("factory_id = ?", factoryID).Order("name ASC").Find(&rows).Error
	return rows, err
}

// MarkNotRunning stops a machine; idempotent on already stopped machines.
func (r *Repository) MarkNotRunning(id uuid.UUID) error {
	return r.db.Model(&models.Machine{}).
		Where("id = ?", id).
		Update("is_running", false).Error
}

// MarkRunning restarts a machine after its defective parts are replaced.
func (r *Repository) MarkRunning(id uuid.UUID) error {
	return r.db.Model(&models.Machine{}).
		Where("id = ?", id).
		Update("is_running", true).Error
}
