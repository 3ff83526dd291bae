//go:build integration
// +build integration

package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/invenda/inventory-be/internal/adapters/db"
	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
	"github.com/invenda/inventory-be/test/helpers"
)

type ItemRepositorySuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	repo      ports.ItemRepository
	statsRepo ports.StatsRepository
	ctx       context.Context
}

func (s *ItemRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewItemRepository(s.testDB.Database, helpers.TestLogger())
	s.statsRepo = db.NewStatsRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *ItemRepositorySuite) SetupTest() {
	helpers.TruncateItems(s.T(), s.testDB.PgxPool)
}

func (s *ItemRepositorySuite) insert(overrides ...func(*domain.Item)) *domain.Item {
	item := helpers.CreateTestItem(overrides...)
	item.ID = 0
	err := s.repo.Insert(s.ctx, item)
	s.Require().NoError(err)
	return item
}

func (s *ItemRepositorySuite) TestInsert() {
	item := s.insert()

	s.NotZero(item.ID)

	saved, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Require().NotNil(saved)
	s.Equal(item.SKU, saved.SKU)
	s.Equal(item.Name, saved.Name)
	s.Equal(item.Stock, saved.Stock)
	s.True(item.UnitPrice.Equal(saved.UnitPrice))
	s.True(item.TotalRevenue.Equal(saved.TotalRevenue))
	s.Equal(item.Status, saved.Status)
}

func (s *ItemRepositorySuite) TestInsert_DuplicateSKU() {
	s.insert()

	dup := helpers.CreateTestItem()
	dup.ID = 0
	err := s.repo.Insert(s.ctx, dup)
	s.ErrorIs(err, domain.ErrSKUConflict)
}

func (s *ItemRepositorySuite) TestFindByID_Missing() {
	found, err := s.repo.FindByID(s.ctx, 9999)
	s.NoError(err)
	s.Nil(found)
}

func (s *ItemRepositorySuite) TestFindAll_Ordering() {
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		s.insert(func(it *domain.Item) {
			it.SKU = fmt.Sprintf("ORD-%03d", i)
			it.Name = fmt.Sprintf("Item %d", i)
			it.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		})
	}

	items, err := s.repo.FindAll(s.ctx, ports.ListFilter{})
	s.NoError(err)
	s.Require().Len(items, 3)

	// Most recently updated first
	s.Equal("ORD-002", items[0].SKU)
	s.Equal("ORD-000", items[2].SKU)
}

func (s *ItemRepositorySuite) TestFindAll_Filtering() {
	s.insert(func(it *domain.Item) {
		it.SKU = "FLT-001"
		it.Category = "Hardware"
		it.Supplier = "Acme"
	})
	s.insert(func(it *domain.Item) {
		it.SKU = "FLT-002"
		it.Category = "Garden"
		it.Supplier = "Acme"
	})
	s.insert(func(it *domain.Item) {
		it.SKU = "FLT-003"
		it.Category = "Garden"
		it.Supplier = "Globex"
		it.Stock = 0
		it.Status = domain.StatusOutOfStock
	})

	s.Run("by_category", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Category: "Garden"})
		s.NoError(err)
		s.Len(items, 2)
	})

	s.Run("by_supplier", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Supplier: "Acme"})
		s.NoError(err)
		s.Len(items, 2)
	})

	s.Run("by_status", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Status: "Out of Stock"})
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal("FLT-003", items[0].SKU)
	})

	s.Run("combined", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{
			Category: "Garden",
			Supplier: "Acme",
		})
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal("FLT-002", items[0].SKU)
	})
}

func (s *ItemRepositorySuite) TestFindAll_Search() {
	s.insert(func(it *domain.Item) {
		it.SKU = "WID-100"
		it.Name = "Steel Widget"
	})
	s.insert(func(it *domain.Item) {
		it.SKU = "GAD-200"
		it.Name = "Brass Gadget"
	})

	s.Run("matches_name", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Search: "widget"})
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal("WID-100", items[0].SKU)
	})

	s.Run("matches_sku", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Search: "gad"})
		s.NoError(err)
		s.Require().Len(items, 1)
		s.Equal("Brass Gadget", items[0].Name)
	})

	s.Run("no_match", func() {
		items, err := s.repo.FindAll(s.ctx, ports.ListFilter{Search: "titanium"})
		s.NoError(err)
		s.Empty(items)
	})
}

func (s *ItemRepositorySuite) TestUpdate() {
	item := s.insert()

	item.Name = "Updated Widget"
	item.Stock = 3
	item.UnitPrice = decimal.NewFromFloat(4.00)
	item.Recalculate("")
	item.UpdatedAt = time.Now().UTC()

	err := s.repo.Update(s.ctx, item)
	s.NoError(err)

	updated, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Require().NotNil(updated)
	s.Equal("Updated Widget", updated.Name)
	s.Equal(3, updated.Stock)
	s.Equal(domain.StatusLowStock, updated.Status)
	s.Equal("12.00", updated.TotalRevenue.StringFixed(2))
}

func (s *ItemRepositorySuite) TestUpdate_Missing() {
	item := helpers.CreateTestItem()
	item.ID = 4242

	err := s.repo.Update(s.ctx, item)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ItemRepositorySuite) TestUpdate_SKUConflict() {
	first := s.insert(func(it *domain.Item) { it.SKU = "CNF-001" })
	second := s.insert(func(it *domain.Item) { it.SKU = "CNF-002" })

	second.SKU = first.SKU
	err := s.repo.Update(s.ctx, second)
	s.ErrorIs(err, domain.ErrSKUConflict)
}

func (s *ItemRepositorySuite) TestDelete() {
	item := s.insert()

	deleted, err := s.repo.Delete(s.ctx, item.ID)
	s.NoError(err)
	s.Require().NotNil(deleted)
	s.Equal(item.SKU, deleted.SKU)
	s.Equal(item.Name, deleted.Name)

	found, err := s.repo.FindByID(s.ctx, item.ID)
	s.NoError(err)
	s.Nil(found)
}

func (s *ItemRepositorySuite) TestDelete_Missing() {
	deleted, err := s.repo.Delete(s.ctx, 9999)
	s.NoError(err)
	s.Nil(deleted)
}

func (s *ItemRepositorySuite) TestConcurrentInserts_SameSKU() {
	// Exactly one of the concurrent inserts must win
	const workers = 5
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			item := helpers.CreateTestItem()
			item.ID = 0
			item.SKU = "RACE-001"
			errs <- s.repo.Insert(context.Background(), item)
		}()
	}

	succeeded := 0
	conflicted := 0
	for i := 0; i < workers; i++ {
		err := <-errs
		switch {
		case err == nil:
			succeeded++
		case s.ErrorIs(err, domain.ErrSKUConflict):
			conflicted++
		}
	}

	s.Equal(1, succeeded)
	s.Equal(workers-1, conflicted)
}

func (s *ItemRepositorySuite) TestStatsSummary() {
	s.insert(func(it *domain.Item) {
		it.SKU = "STA-001"
		it.Category = "Hardware"
		it.Supplier = "Acme"
		it.Stock = 20
		it.UnitPrice = decimal.NewFromFloat(10.00)
		it.TotalRevenue = decimal.NewFromFloat(200.00)
		it.Status = domain.StatusInStock
	})
	s.insert(func(it *domain.Item) {
		it.SKU = "STA-002"
		it.Category = "Hardware"
		it.Supplier = "Acme"
		it.Stock = 5
		it.UnitPrice = decimal.NewFromFloat(12.00)
		it.TotalRevenue = decimal.NewFromFloat(60.00)
		it.Status = domain.StatusLowStock
	})
	s.insert(func(it *domain.Item) {
		it.SKU = "STA-003"
		it.Category = "Garden"
		it.Supplier = "Globex"
		it.Stock = 0
		it.UnitPrice = decimal.NewFromFloat(3.00)
		it.TotalRevenue = decimal.Zero
		it.Status = domain.StatusOutOfStock
	})

	stats, err := s.statsRepo.Summary(s.ctx)
	s.NoError(err)
	s.Require().NotNil(stats)

	s.Equal(int64(3), stats.TotalItems)
	s.InDelta(260.00, stats.TotalValue, 0.001)
	s.Equal(int64(2), stats.SuppliersCount)

	s.Equal(int64(1), stats.StatusCounts["In Stock"])
	s.Equal(int64(1), stats.StatusCounts["Low Stock"])
	s.Equal(int64(1), stats.StatusCounts["Out of Stock"])

	s.Require().Len(stats.Categories, 2)
	s.Equal("Garden", stats.Categories[0].Category)
	s.Equal(int64(1), stats.Categories[0].Count)
	s.Equal(int64(0), stats.Categories[0].TotalStock)
	s.Equal("Hardware", stats.Categories[1].Category)
	s.Equal(int64(2), stats.Categories[1].Count)
	s.Equal(int64(25), stats.Categories[1].TotalStock)
}

func (s *ItemRepositorySuite) TestStatsSummary_Empty() {
	stats, err := s.statsRepo.Summary(s.ctx)
	s.NoError(err)
	s.Require().NotNil(stats)
	s.Equal(int64(0), stats.TotalItems)
	s.Zero(stats.TotalValue)
	s.Empty(stats.Categories)
}

func TestItemRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(ItemRepositorySuite))
}
