package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/reusehub/reuse-be/internal/adapters/db"
	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
	"github.com/reusehub/reuse-be/internal/core/services"
	"github.com/reusehub/reuse-be/test/helpers"
)

func BenchmarkInventoryOperations(b *testing.B) {
	// Setup
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	service := services.NewItemService(repo, nil, nil, helpers.TestLogger())
	sess := helpers.TestSession()
	ctx := context.Background()

	b.Run("Create", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			item := &domain.Item{
				Name:          fmt.Sprintf("Benchmark Item %d", i),
				TotalQuantity: 3,
			}
			_ = service.Create(ctx, sess, item)
		}
	})

	// Pre-create items for read benchmarks
	var itemIDs []uuid.UUID
	for i := 0; i < 100; i++ {
		item := helpers.CreateTestItem(func(it *domain.Item) {
			it.Name = fmt.Sprintf("Read Item %d", i)
		})
		_ = service.Create(ctx, sess, item)
		itemIDs = append(itemIDs, item.ID)
	}

	b.Run("Read", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			id := itemIDs[i%len(itemIDs)]
			_, _ = service.GetByID(ctx, sess, id)
		}
	})

	b.Run("List", func(b *testing.B) {
		params := ports.ListParams{
			Page:     1,
			PageSize: 50,
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx, sess, params)
		}
	})

	b.Run("Search", func(b *testing.B) {
		params := ports.ListParams{
			Search:   "Item",
			Page:     1,
			PageSize: 50,
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = service.List(ctx, sess, params)
		}
	})

	b.Run("BatchCreate", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			items := helpers.CreateTestItems(100)
			for j := range items {
				items[j].Name = fmt.Sprintf("Batch %d-%d", i, j)
				items[j].PrepareForStorage()
			}
			_ = repo.SaveBatch(ctx, items)
		}
	})
}

func BenchmarkBorrowReturnCycle(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	itemRepo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	borrowRepo := db.NewBorrowRepository(testDB.Database, helpers.TestLogger())
	borrowService := services.NewBorrowService(borrowRepo, nil, helpers.TestLogger())
	sess := helpers.TestSession()
	ctx := context.Background()

	item := helpers.CreateTestItem(func(it *domain.Item) {
		it.Name = "Benchmark Ladder"
		it.TotalQuantity = 1
		it.AvailableQuantity = 1
	})
	if err := itemRepo.Save(ctx, item); err != nil {
		b.Fatalf("seeding item: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		outcome, err := borrowService.Borrow(ctx, sess, item.ID)
		if err != nil {
			b.Fatalf("borrow: %v", err)
		}
		if _, err := borrowService.Return(ctx, sess, outcome.Record.ID); err != nil {
			b.Fatalf("return: %v", err)
		}
	}
}

func BenchmarkLedgerList(b *testing.B) {
	testDB := helpers.SetupTestDB(&testing.T{})
	defer testDB.Database.Close()

	itemRepo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	borrowRepo := db.NewBorrowRepository(testDB.Database, helpers.TestLogger())
	sess := helpers.TestSession()
	ctx := context.Background()

	item := helpers.CreateTestItem(func(it *domain.Item) {
		it.TotalQuantity = 500
		it.AvailableQuantity = 500
	})
	if err := itemRepo.Save(ctx, item); err != nil {
		b.Fatalf("seeding item: %v", err)
	}
	for i := 0; i < 200; i++ {
		if _, err := borrowRepo.Borrow(ctx, sess.AppID, item.ID, sess.UserID); err != nil {
			b.Fatalf("seeding borrow %d: %v", i, err)
		}
	}

	params := ports.BorrowQueryParams{
		UserID:     sess.UserID,
		ActiveOnly: true,
		Page:       1,
		PageSize:   50,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = borrowRepo.FindAll(ctx, sess.AppID, params)
	}
}
