// internal/core/services/item_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
	"github.com/invenda/inventory-be/internal/core/services"
	"github.com/invenda/inventory-be/test/helpers"
	"github.com/invenda/inventory-be/test/mocks"
)

func newItemService(t *testing.T) (*services.ItemService, *mocks.MockItemRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	return services.NewItemService(repo, helpers.TestLogger()), repo
}

func TestItemService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         ports.CreateInput
		setupMocks    func(repo *mocks.MockItemRepository)
		expectedError error
		check         func(t *testing.T, item *domain.Item)
	}{
		{
			name: "derives low stock status and revenue",
			input: ports.CreateInput{
				SKU:       "WDG-001",
				Name:      "Widget",
				Stock:     5,
				UnitPrice: decimal.RequireFromString("2.00"),
			},
			setupMocks: func(repo *mocks.MockItemRepository) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *domain.Item) error {
						item.ID = 1
						return nil
					})
			},
			check: func(t *testing.T, item *domain.Item) {
				assert.Equal(t, domain.StatusLowStock, item.Status)
				assert.Equal(t, "10.00", item.TotalRevenue.StringFixed(2))
				assert.Equal(t, int64(1), item.ID)
			},
		},
		{
			name: "honors a recognized status override",
			input: ports.CreateInput{
				SKU:       "WDG-002",
				Name:      "Widget",
				Stock:     500,
				UnitPrice: decimal.RequireFromString("1.00"),
				Status:    "Out of Stock",
			},
			setupMocks: func(repo *mocks.MockItemRepository) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, item *domain.Item) {
				assert.Equal(t, domain.StatusOutOfStock, item.Status)
			},
		},
		{
			name: "ignores an unrecognized status override",
			input: ports.CreateInput{
				SKU:       "WDG-003",
				Name:      "Widget",
				Stock:     500,
				UnitPrice: decimal.RequireFromString("1.00"),
				Status:    "Backordered",
			},
			setupMocks: func(repo *mocks.MockItemRepository) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, item *domain.Item) {
				assert.Equal(t, domain.StatusInStock, item.Status)
			},
		},
		{
			name: "rejects missing sku",
			input: ports.CreateInput{
				Name: "Widget",
			},
			setupMocks:    func(repo *mocks.MockItemRepository) {},
			expectedError: domain.NewMissingFieldError("sku"),
		},
		{
			name: "rejects missing name",
			input: ports.CreateInput{
				SKU: "WDG-004",
			},
			setupMocks:    func(repo *mocks.MockItemRepository) {},
			expectedError: domain.NewMissingFieldError("name"),
		},
		{
			name: "surfaces sku conflicts untouched",
			input: ports.CreateInput{
				SKU:  "WDG-001",
				Name: "Widget",
			},
			setupMocks: func(repo *mocks.MockItemRepository) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(domain.ErrSKUConflict)
			},
			expectedError: domain.ErrSKUConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newItemService(t)
			tt.setupMocks(repo)

			item, err := svc.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			require.NotNil(t, item)
			if tt.check != nil {
				tt.check(t, item)
			}
		})
	}
}

func TestItemService_GetByID(t *testing.T) {
	t.Run("returns the stored item", func(t *testing.T) {
		svc, repo := newItemService(t)
		stored := helpers.CreateTestItem()
		repo.EXPECT().FindByID(gomock.Any(), stored.ID).Return(stored, nil)

		item, err := svc.GetByID(context.Background(), stored.ID)

		require.NoError(t, err)
		assert.Equal(t, stored, item)
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		svc, repo := newItemService(t)
		repo.EXPECT().FindByID(gomock.Any(), int64(99)).Return(nil, nil)

		_, err := svc.GetByID(context.Background(), 99)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		svc, repo := newItemService(t)
		repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(nil, errors.New("connection reset"))

		_, err := svc.GetByID(context.Background(), 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestItemService_Update(t *testing.T) {
	ptr := func(s string) *string { return &s }
	intPtr := func(n int) *int { return &n }

	t.Run("merges supplied fields and recomputes derived ones", func(t *testing.T) {
		svc, repo := newItemService(t)
		stored := helpers.CreateTestItem(func(i *domain.Item) {
			i.ID = 7
			i.Stock = 50
			i.UnitPrice = decimal.RequireFromString("4.00")
			i.Status = domain.StatusInStock
		})
		repo.EXPECT().FindByID(gomock.Any(), int64(7)).Return(stored, nil)

		var saved *domain.Item
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, item *domain.Item) error {
				saved = item
				return nil
			})

		item, err := svc.Update(context.Background(), 7, ports.UpdateInput{
			Stock: intPtr(3),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, item.Stock)
		assert.Equal(t, stored.SKU, item.SKU, "unsupplied fields keep stored values")
		assert.Equal(t, domain.StatusLowStock, item.Status,
			"status re-derives from stock when not supplied, stored status is not reused")
		assert.Equal(t, "12.00", item.TotalRevenue.StringFixed(2))
		assert.Equal(t, saved, item)
	})

	t.Run("request-supplied status overrides derivation", func(t *testing.T) {
		svc, repo := newItemService(t)
		stored := helpers.CreateTestItem(func(i *domain.Item) { i.ID = 7; i.Stock = 0 })
		repo.EXPECT().FindByID(gomock.Any(), int64(7)).Return(stored, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		item, err := svc.Update(context.Background(), 7, ports.UpdateInput{
			Status: ptr("In Stock"),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInStock, item.Status)
	})

	t.Run("missing item yields not found", func(t *testing.T) {
		svc, repo := newItemService(t)
		repo.EXPECT().FindByID(gomock.Any(), int64(404)).Return(nil, nil)

		_, err := svc.Update(context.Background(), 404, ports.UpdateInput{Name: ptr("x")})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("sku collision on update surfaces as conflict", func(t *testing.T) {
		svc, repo := newItemService(t)
		stored := helpers.CreateTestItem(func(i *domain.Item) { i.ID = 7 })
		repo.EXPECT().FindByID(gomock.Any(), int64(7)).Return(stored, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.ErrSKUConflict)

		_, err := svc.Update(context.Background(), 7, ports.UpdateInput{SKU: ptr("TAKEN")})

		assert.ErrorIs(t, err, domain.ErrSKUConflict)
	})
}

func TestItemService_Delete(t *testing.T) {
	t.Run("returns the removed item", func(t *testing.T) {
		svc, repo := newItemService(t)
		stored := helpers.CreateTestItem(func(i *domain.Item) { i.ID = 12 })
		repo.EXPECT().Delete(gomock.Any(), int64(12)).Return(stored, nil)

		item, err := svc.Delete(context.Background(), 12)

		require.NoError(t, err)
		assert.Equal(t, stored, item)
	})

	t.Run("missing item yields not found", func(t *testing.T) {
		svc, repo := newItemService(t)
		repo.EXPECT().Delete(gomock.Any(), int64(12)).Return(nil, nil)

		_, err := svc.Delete(context.Background(), 12)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestItemService_BulkImport(t *testing.T) {
	svc, repo := newItemService(t)

	// First and third inserts succeed, second hits the unique index.
	gomock.InOrder(
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, item *domain.Item) error {
				item.ID = 1
				return nil
			}),
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(domain.ErrSKUConflict),
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, item *domain.Item) error {
				item.ID = 2
				return nil
			}),
	)

	price := decimal.RequireFromString("1.50")
	result := svc.BulkImport(context.Background(), []ports.CreateInput{
		{SKU: "A-1", Name: "First", Stock: 20, UnitPrice: price},
		{SKU: "A-1", Name: "Duplicate", Stock: 4, UnitPrice: price},
		{Name: "No SKU"},
		{SKU: "A-2", Name: "Second", Stock: 0, UnitPrice: price},
	})

	require.Len(t, result.Added, 2)
	require.Len(t, result.Errors, 2)

	assert.Equal(t, "A-1", result.Errors[0].SKU)
	assert.Equal(t, "SKU already exists", result.Errors[0].Error)
	assert.Equal(t, "unknown", result.Errors[1].SKU, "candidates without sku report as unknown")
	assert.Equal(t, "Missing required field: sku", result.Errors[1].Error)

	assert.Equal(t, domain.StatusInStock, result.Added[0].Status)
	assert.Equal(t, domain.StatusOutOfStock, result.Added[1].Status)
}

func TestItemService_BulkImport_Empty(t *testing.T) {
	svc, _ := newItemService(t)

	result := svc.BulkImport(context.Background(), nil)

	assert.NotNil(t, result.Added)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Errors)
}

func TestItemService_List(t *testing.T) {
	svc, repo := newItemService(t)
	items := []*domain.Item{helpers.CreateTestItem()}
	filter := ports.ListFilter{Category: "Hardware"}
	repo.EXPECT().FindAll(gomock.Any(), filter).Return(items, nil)

	got, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, items, got)
}

// Guards against the temptation to cache time.Now at service
// construction; every write must stamp its own moment.
func TestItemService_CreateStampsCurrentTime(t *testing.T) {
	svc, repo := newItemService(t)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	before := time.Now().UTC().Add(-time.Second)
	item, err := svc.Create(context.Background(), ports.CreateInput{
		SKU: "T-1", Name: "Timer",
	})
	require.NoError(t, err)
	assert.True(t, item.UpdatedAt.After(before))
}
