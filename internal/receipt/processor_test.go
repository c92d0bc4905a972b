package receipt

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Abid-Al-Labib/erp-base-sub000/internal/inventory"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/db/models"
	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/enums"
	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

func setupReceiptTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS storage_parts (
  factory_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  avg_price NUMERIC,
  updated_at DATETIME,
  PRIMARY KEY (factory_id, part_id)
);`,
		`CREATE TABLE IF NOT EXISTS machine_parts (
  machine_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  defective_qty INTEGER NOT NULL DEFAULT 0 CHECK (defective_qty >= 0),
  updated_at DATETIME,
  PRIMARY KEY (machine_id, part_id)
);`,
		`CREATE TABLE IF NOT EXISTS damaged_parts (
  factory_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  updated_at DATETIME,
  PRIMARY KEY (factory_id, part_id)
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type stubCrediter struct {
	calls []uuid.UUID
	err   error
}

func (s *stubCrediter) CreditComponent(_ *gorm.DB, componentID, _ uuid.UUID, _ int, _ *decimal.Decimal) error {
	s.calls = append(s.calls, componentID)
	return s.err
}

func newReceiptProcessor(db *gorm.DB, crediter ProjectCrediter) *Processor {
	return NewProcessor(
		inventory.NewStorageRepository(db),
		inventory.NewMachineRepository(db),
		inventory.NewDamagedRepository(db),
		crediter,
	)
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func unstablePtr(u enums.UnstableType) *enums.UnstableType { return &u }

func TestCompletePFSWeightedAverage(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})
	storage := inventory.NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()
	require.NoError(t, storage.CreditAveraged(factoryID, partID, 20, decimal.NewFromInt(10)))

	order := models.Order{ID: uuid.New(), OrderType: enums.OrderTypePFS, FactoryID: factoryID}
	item := models.OrderLineItem{
		ID:       uuid.New(),
		PartID:   partID,
		Qty:      10,
		UnitCost: decPtr(decimal.NewFromInt(16)),
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, item)
	}))

	row, err := storage.Get(factoryID, partID)
	require.NoError(t, err)
	assert.Equal(t, 30, row.Qty)
	require.NotNil(t, row.AvgPrice)
	assert.True(t, row.AvgPrice.Equal(decimal.NewFromInt(12)), "got %s", row.AvgPrice)
}

func TestCompletePFSMissingCost(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})
	storage := inventory.NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()
	require.NoError(t, storage.CreditAveraged(factoryID, partID, 20, decimal.NewFromInt(10)))

	order := models.Order{ID: uuid.New(), OrderType: enums.OrderTypePFS, FactoryID: factoryID}
	item := models.OrderLineItem{ID: uuid.New(), PartID: partID, Qty: 10}

	err := db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, item)
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMissingCostData, typed.Code())

	row, err := storage.Get(factoryID, partID)
	require.NoError(t, err)
	assert.Equal(t, 20, row.Qty, "failed completion must not touch the pool")
}

func TestCompletePFSMissingBaseline(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})
	storage := inventory.NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()
	// Stock exists but no average price was ever recorded.
	require.NoError(t, storage.Credit(factoryID, partID, 20))

	order := models.Order{ID: uuid.New(), OrderType: enums.OrderTypePFS, FactoryID: factoryID}
	item := models.OrderLineItem{
		ID:       uuid.New(),
		PartID:   partID,
		Qty:      10,
		UnitCost: decPtr(decimal.NewFromInt(16)),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, item)
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMissingBaselineAverage, typed.Code())
}

func TestCompletePFMDefectiveReversal(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})
	machineInv := inventory.NewMachineRepository(db)
	damaged := inventory.NewDamagedRepository(db)

	factoryID := uuid.New()
	machineID := uuid.New()
	partID := uuid.New()
	require.NoError(t, machineInv.Credit(machineID, partID, 3))
	require.NoError(t, machineInv.CreditDefective(machineID, partID, 5))

	order := models.Order{
		ID:        uuid.New(),
		OrderType: enums.OrderTypePFM,
		FactoryID: factoryID,
		MachineID: &machineID,
	}
	item := models.OrderLineItem{
		ID:           uuid.New(),
		PartID:       partID,
		Qty:          5,
		UnitCost:     decPtr(decimal.NewFromInt(7)),
		UnstableType: unstablePtr(enums.UnstableTypeDefective),
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, item)
	}))

	mp, err := machineInv.Get(machineID, partID)
	require.NoError(t, err)
	assert.Equal(t, 8, mp.Qty, "replacement arrives on the machine")
	assert.Equal(t, 0, mp.DefectiveQty, "defective flags clear")

	dp, err := damaged.Get(factoryID, partID)
	require.NoError(t, err)
	assert.Equal(t, 5, dp.Qty, "scrapped parts land in damaged goods")
}

func TestCompletePFMPlainReplacement(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})
	machineInv := inventory.NewMachineRepository(db)

	machineID := uuid.New()
	partID := uuid.New()

	order := models.Order{
		ID:        uuid.New(),
		OrderType: enums.OrderTypePFM,
		FactoryID: uuid.New(),
		MachineID: &machineID,
	}
	item := models.OrderLineItem{
		ID:       uuid.New(),
		PartID:   partID,
		Qty:      4,
		UnitCost: decPtr(decimal.NewFromInt(3)),
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, item)
	}))

	mp, err := machineInv.Get(machineID, partID)
	require.NoError(t, err)
	assert.Equal(t, 4, mp.Qty)
	assert.Equal(t, 0, mp.DefectiveQty)
}

func TestCompleteProjectDelegate(t *testing.T) {
	db := setupReceiptTestDB(t)
	componentID := uuid.New()

	t.Run("success invokes the delegate", func(t *testing.T) {
		crediter := &stubCrediter{}
		processor := newReceiptProcessor(db, crediter)
		order := models.Order{
			ID:                 uuid.New(),
			OrderType:          enums.OrderTypePFP,
			FactoryID:          uuid.New(),
			ProjectComponentID: &componentID,
		}
		item := models.OrderLineItem{ID: uuid.New(), PartID: uuid.New(), Qty: 2}

		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return processor.Complete(tx, order, item)
		}))
		require.Len(t, crediter.calls, 1)
		assert.Equal(t, componentID, crediter.calls[0])
	})

	t.Run("delegate failure surfaces as such", func(t *testing.T) {
		crediter := &stubCrediter{err: errors.New("ledger offline")}
		processor := newReceiptProcessor(db, crediter)
		order := models.Order{
			ID:                 uuid.New(),
			OrderType:          enums.OrderTypeSTP,
			FactoryID:          uuid.New(),
			ProjectComponentID: &componentID,
		}
		item := models.OrderLineItem{ID: uuid.New(), PartID: uuid.New(), Qty: 2}

		err := db.Transaction(func(tx *gorm.DB) error {
			return processor.Complete(tx, order, item)
		})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeDelegateFailure, typed.Code())
	})
}

func TestCompleteUnknownOrderType(t *testing.T) {
	db := setupReceiptTestDB(t)
	processor := newReceiptProcessor(db, &stubCrediter{})

	order := models.Order{ID: uuid.New(), OrderType: enums.OrderType("lease_to_own")}
	err := db.Transaction(func(tx *gorm.DB) error {
		return processor.Complete(tx, order, models.OrderLineItem{ID: uuid.New()})
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnknownOrderType, typed.Code())
}
