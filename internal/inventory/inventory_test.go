package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/Abid-Al-Labib/erp-base-sub000/pkg/errors"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	storageParts := `
CREATE TABLE IF NOT EXISTS storage_parts (
  factory_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  avg_price NUMERIC,
  updated_at DATETIME,
  PRIMARY KEY (factory_id, part_id)
);`
	machineParts := `
CREATE TABLE IF NOT EXISTS machine_parts (
  machine_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  defective_qty INTEGER NOT NULL DEFAULT 0 CHECK (defective_qty >= 0),
  updated_at DATETIME,
  PRIMARY KEY (machine_id, part_id)
);`
	damagedParts := `
CREATE TABLE IF NOT EXISTS damaged_parts (
  factory_id TEXT NOT NULL,
  part_id TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0 CHECK (qty >= 0),
  updated_at DATETIME,
  PRIMARY KEY (factory_id, part_id)
);`

	for _, stmt := range []string{storageParts, machineParts, damagedParts} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestStorageCreditCreatesAndAccumulates(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()

	require.NoError(t, repo.Credit(factoryID, partID, 5))
	require.NoError(t, repo.Credit(factoryID, partID, 3))

	row, err := repo.Get(factoryID, partID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 8, row.Qty)
	assert.Nil(t, row.AvgPrice)
}

func TestStorageDebitGuardsBalance(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()
	require.NoError(t, repo.Credit(factoryID, partID, 4))

	err := repo.Debit(factoryID, partID, 5)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientQuantity, typed.Code())

	row, err := repo.Get(factoryID, partID)
	require.NoError(t, err)
	assert.Equal(t, 4, row.Qty, "failed debit must not change the pool")

	require.NoError(t, repo.Debit(factoryID, partID, 4))
	row, err = repo.Get(factoryID, partID)
	require.NoError(t, err)
	assert.Equal(t, 0, row.Qty)
}

func TestStorageDebitMissingRow(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	err := repo.Debit(uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientQuantity, typed.Code())
}

func TestStorageCreditAveraged(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()

	require.NoError(t, repo.CreditAveraged(factoryID, partID, 20, decimal.NewFromInt(10)))
	require.NoError(t, repo.CreditAveraged(factoryID, partID, 10, decimal.NewFromInt(16)))

	row, err := repo.Get(factoryID, partID)
	require.NoError(t, err)
	require.NotNil(t, row.AvgPrice)
	assert.Equal(t, 30, row.Qty)
	assert.True(t, row.AvgPrice.Equal(decimal.NewFromInt(12)),
		"expected weighted average 12, got %s", row.AvgPrice)
}

func TestStorageCreditAveragedMissingBaseline(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()

	// Stock with no recorded average price cannot absorb a priced receipt.
	require.NoError(t, repo.Credit(factoryID, partID, 7))

	err := repo.CreditAveraged(factoryID, partID, 3, decimal.NewFromInt(9))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeMissingBaselineAverage, typed.Code())
}

func TestCreditAveragedAdoptsBaselineOnDrainedPool(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewStorageRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()

	// Unpriced stock that was fully withdrawn leaves a row with qty 0
	// and no average. The next priced receipt restarts the baseline.
	require.NoError(t, repo.Credit(factoryID, partID, 7))
	require.NoError(t, repo.Debit(factoryID, partID, 7))

	require.NoError(t, repo.CreditAveraged(factoryID, partID, 4, decimal.NewFromInt(9)))

	row, err := repo.Get(factoryID, partID)
	require.NoError(t, err)
	require.NotNil(t, row.AvgPrice)
	assert.Equal(t, 4, row.Qty)
	assert.True(t, row.AvgPrice.Equal(decimal.NewFromInt(9)),
		"expected fresh baseline 9, got %s", row.AvgPrice)
}

func TestMachineDefectiveFlow(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewMachineRepository(db)

	machineID := uuid.New()
	partID := uuid.New()

	require.NoError(t, repo.Credit(machineID, partID, 10))
	require.NoError(t, repo.CreditDefective(machineID, partID, 5))

	row, err := repo.Get(machineID, partID)
	require.NoError(t, err)
	assert.Equal(t, 10, row.Qty)
	assert.Equal(t, 5, row.DefectiveQty)

	require.NoError(t, repo.DebitDefective(machineID, partID, 5))
	err = repo.DebitDefective(machineID, partID, 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientQuantity, typed.Code())
}

func TestDamagedCredit(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewDamagedRepository(db)

	factoryID := uuid.New()
	partID := uuid.New()

	require.NoError(t, repo.Credit(factoryID, partID, 2))
	require.NoError(t, repo.Credit(factoryID, partID, 3))

	rows, err := repo.ListByFactory(factoryID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Qty)
}

func TestWeightedAverage(t *testing.T) {
	got := WeightedAverage(20, decimal.NewFromInt(10), 10, decimal.NewFromInt(16))
	assert.True(t, got.Equal(decimal.NewFromInt(12)), "got %s", got)
}
