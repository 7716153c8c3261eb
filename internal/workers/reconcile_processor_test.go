//go:build e2e
// +build e2e

// internal/workers/reconcile_processor_test.go
package workers

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/test/helpers"
)

func TestReconcileProcessor_CorrectsDrift(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	ctx := context.Background()

	drifted := helpers.CreateTestItem(func(i *domain.Item) {
		i.Name = "Drifted Ladder"
		i.TotalQuantity = 3
		i.AvailableQuantity = 3 // one active borrow exists, should be 2
	})
	clean := helpers.CreateTestItem(func(i *domain.Item) {
		i.Name = "Clean Lamp"
		i.TotalQuantity = 2
		i.AvailableQuantity = 2
	})
	helpers.SeedTestItems(t, testDB.PgxPool, []domain.Item{*drifted, *clean})

	record := domain.NewBorrowRecord(drifted, "user-test-1")
	_, err := testDB.PgxPool.Exec(ctx,
		`INSERT INTO borrow_records (id, app_id, item_id, item_name, user_id, borrow_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.AppID, record.ItemID, record.ItemName,
		record.UserID, record.BorrowDate, record.Status)
	require.NoError(t, err)

	processor := NewReconcileProcessor(testDB.Database, helpers.TestLogger())
	task := asynq.NewTask(TypeReconcile, []byte(`{"app_id":"`+domain.DefaultAppID+`"}`))
	require.NoError(t, processor.ProcessReconcile(ctx, task))

	var available int
	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT available_quantity FROM items WHERE id = $1`, drifted.ID).Scan(&available))
	assert.Equal(t, 2, available)

	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT available_quantity FROM items WHERE id = $1`, clean.ID).Scan(&available))
	assert.Equal(t, 2, available, "items without drift stay untouched")

	var audits int
	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM availability_audits WHERE item_id = $1`, drifted.ID).Scan(&audits))
	assert.Equal(t, 1, audits)

	var recorded, computed int
	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT recorded_quantity, computed_quantity FROM availability_audits WHERE item_id = $1`,
		drifted.ID).Scan(&recorded, &computed))
	assert.Equal(t, 3, recorded)
	assert.Equal(t, 2, computed)

	// A second pass finds nothing to correct.
	require.NoError(t, processor.ProcessReconcile(ctx, task))
	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT COUNT(*) FROM availability_audits WHERE item_id = $1`, drifted.ID).Scan(&audits))
	assert.Equal(t, 1, audits)
}

func TestReconcileProcessor_ClampsAtZero(t *testing.T) {
	testDB := helpers.SetupTestDB(t)
	ctx := context.Background()

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Name = "Over-borrowed Tent"
		i.TotalQuantity = 1
		i.AvailableQuantity = 1
	})
	helpers.SeedTestItems(t, testDB.PgxPool, []domain.Item{*item})

	// Two active borrows against a single unit, as a restored backup
	// might leave behind.
	for i := 0; i < 2; i++ {
		record := domain.NewBorrowRecord(item, "user-test-1")
		_, err := testDB.PgxPool.Exec(ctx,
			`INSERT INTO borrow_records (id, app_id, item_id, item_name, user_id, borrow_date, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			record.ID, record.AppID, record.ItemID, record.ItemName,
			record.UserID, record.BorrowDate, record.Status)
		require.NoError(t, err)
	}

	processor := NewReconcileProcessor(testDB.Database, helpers.TestLogger())
	task := asynq.NewTask(TypeReconcile, []byte(`{"app_id":"`+domain.DefaultAppID+`"}`))
	require.NoError(t, processor.ProcessReconcile(ctx, task))

	var available int
	require.NoError(t, testDB.PgxPool.QueryRow(ctx,
		`SELECT available_quantity FROM items WHERE id = $1`, item.ID).Scan(&available))
	assert.Equal(t, 0, available)
}
