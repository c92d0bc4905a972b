package workflow

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
)

// Repository loads workflow sequences from the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, workflowID uuid.UUID) (*Sequence, error)
	FindByOrderType(ctx context.Context, orderType enums.OrderType) (*Sequence, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a workflow repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, workflowID uuid.UUID) (*Sequence, error) {
	var wf models.Workflow
	err := r.db.WithContext(ctx).
		Where("id = ?", workflowID).
		First(&wf).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, &wf)
}

func (r *repository) FindByOrderType(ctx context.Context, orderType enums.OrderType) (*Sequence, error) {
	var wf models.Workflow
	err := r.db.WithContext(ctx).
		Where("order_type = ?", orderType).
		First(&wf).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, &wf)
}

func (r *repository) hydrate(ctx context.Context, wf *models.Workflow) (*Sequence, error) {
	var rows []models.WorkflowStatus
	err := r.db.WithContext(ctx).
		Preload("Status").
		Where("workflow_id = ?", wf.ID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make([]models.Status, 0, len(rows))
	for _, row := range rows {
		if row.Status != nil {
			statuses = append(statuses, *row.Status)
		}
	}
	return &Sequence{
		WorkflowID: wf.ID,
		OrderType:  wf.OrderType,
		Statuses:   statuses,
	}, nil
}
