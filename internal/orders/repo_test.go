package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS statuses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_type TEXT NOT NULL,
  workflow_id TEXT NOT NULL,
  current_status_id TEXT NOT NULL,
  factory_id TEXT NOT NULL,
  machine_id TEXT,
  src_factory_id TEXT,
  project_component_id TEXT,
  created_by TEXT NOT NULL,
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  qty_taken_from_storage INTEGER NOT NULL DEFAULT 0,
  approved_pending_order INTEGER NOT NULL DEFAULT 0,
  approved_office_order INTEGER NOT NULL DEFAULT 0,
  approved_budget INTEGER NOT NULL DEFAULT 0,
  approved_storage_withdrawal INTEGER NOT NULL DEFAULT 0,
  brand TEXT,
  vendor TEXT,
  unit_cost NUMERIC,
  in_storage INTEGER NOT NULL DEFAULT 0,
  unstable_type TEXT,
  stage TEXT NOT NULL DEFAULT 'unquoted',
  purchased_date DATETIME,
  sent_date DATETIME,
  received_date DATETIME,
  sample_requested INTEGER NOT NULL DEFAULT 0,
  sample_approved INTEGER NOT NULL DEFAULT 0,
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS status_trackers (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  actor_id TEXT NOT NULL,
  status_id TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedStatus(t *testing.T, db *gorm.DB, name string) models.Status {
	t.Helper()
	status := models.Status{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(&status).Error)
	return status
}

func newOrder(statusID uuid.UUID) *models.Order {
	return &models.Order{
		ID:              uuid.New(),
		OrderType:       enums.OrderTypePFS,
		WorkflowID:      uuid.New(),
		CurrentStatusID: statusID,
		FactoryID:       uuid.New(),
		CreatedBy:       uuid.New(),
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	status := seedStatus(t, db, "Pending")
	order := newOrder(status.ID)
	items := []models.OrderLineItem{
		{ID: uuid.New(), PartID: uuid.New(), Qty: 3, Stage: enums.ProcurementStageUnquoted},
		{ID: uuid.New(), PartID: uuid.New(), Qty: 7, Stage: enums.ProcurementStageUnquoted},
	}

	require.NoError(t, repo.Create(ctx, order, items))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CurrentStatus)
	assert.Equal(t, "Pending", found.CurrentStatus.Name)
	assert.Len(t, found.LineItems, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryStatusAndTracker(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pending := seedStatus(t, db, "Pending")
	review := seedStatus(t, db, "Office Review")
	order := newOrder(pending.ID)
	require.NoError(t, repo.Create(ctx, order, nil))

	actorID := uuid.New()
	require.NoError(t, repo.AppendTracker(ctx, models.StatusTracker{
		ID: uuid.New(), OrderID: order.ID, ActorID: actorID, StatusID: pending.ID,
	}))
	require.NoError(t, repo.UpdateStatus(ctx, order.ID, review.ID))
	require.NoError(t, repo.AppendTracker(ctx, models.StatusTracker{
		ID: uuid.New(), OrderID: order.ID, ActorID: actorID, StatusID: review.ID,
	}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, found.CurrentStatusID)

	trail, err := repo.ListTracker(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, pending.ID, trail[0].StatusID)
	assert.Equal(t, review.ID, trail[1].StatusID)

	err = repo.UpdateStatus(ctx, uuid.New(), review.ID)
	require.Error(t, err)
}

func TestRepositoryLineItemFieldUpdates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	status := seedStatus(t, db, "Pending")
	order := newOrder(status.ID)
	item := models.OrderLineItem{ID: uuid.New(), PartID: uuid.New(), Qty: 5, Stage: enums.ProcurementStageUnquoted}
	require.NoError(t, repo.Create(ctx, order, []models.OrderLineItem{item}))

	now := time.Now().UTC()
	require.NoError(t, repo.UpdateLineItemFields(ctx, item.ID, map[string]any{
		"approved_pending_order": true,
		"received_date":          now,
		"stage":                  enums.ProcurementStageReceived,
	}))

	updated, err := repo.FindLineItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, updated.ApprovedPendingOrder)
	require.NotNil(t, updated.ReceivedDate)
	assert.Equal(t, enums.ProcurementStageReceived, updated.Stage)

	require.NoError(t, repo.UpdateLineItemFields(ctx, item.ID, map[string]any{
		"received_date": nil,
		"stage":         enums.ProcurementStageUnquoted,
	}))
	updated, err = repo.FindLineItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.ReceivedDate)

	err = repo.UpdateLineItemFields(ctx, uuid.New(), map[string]any{"qty": 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryDeleteCascades(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	status := seedStatus(t, db, "Pending")
	order := newOrder(status.ID)
	items := []models.OrderLineItem{
		{ID: uuid.New(), PartID: uuid.New(), Qty: 1, Stage: enums.ProcurementStageUnquoted},
		{ID: uuid.New(), PartID: uuid.New(), Qty: 2, Stage: enums.ProcurementStageUnquoted},
	}
	require.NoError(t, repo.Create(ctx, order, items))

	require.NoError(t, repo.DeleteLineItem(ctx, items[0].ID))
	count, err := repo.CountLineItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, order.ID))
	count, err = repo.CountLineItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	_, err = repo.FindByID(ctx, order.ID)
	require.Error(t, err)
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	status := seedStatus(t, db, "Pending")
	factoryID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		order := newOrder(status.ID)
		order.FactoryID = factoryID
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(order).Error)
	}
	other := newOrder(status.ID)
	require.NoError(t, db.Create(other).Error)

	page1, next, err := repo.List(ctx, ListFilter{
		FactoryID: &factoryID,
		Page:      pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)

	page2, next2, err := repo.List(ctx, ListFilter{
		FactoryID: &factoryID,
		Page:      pagination.Params{Limit: 2, Cursor: pagination.EncodeCursor(*next)},
	})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Nil(t, next2)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))
}
