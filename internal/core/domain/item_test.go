// internal/core/domain/item_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		override ItemStatus
		expected ItemStatus
	}{
		{
			name:     "zero stock is out of stock",
			stock:    0,
			expected: StatusOutOfStock,
		},
		{
			name:     "negative stock is out of stock",
			stock:    -5,
			expected: StatusOutOfStock,
		},
		{
			name:     "stock of one is low stock",
			stock:    1,
			expected: StatusLowStock,
		},
		{
			name:     "stock at threshold is low stock",
			stock:    10,
			expected: StatusLowStock,
		},
		{
			name:     "stock above threshold is in stock",
			stock:    11,
			expected: StatusInStock,
		},
		{
			name:     "recognized override wins over stock rule",
			stock:    500,
			override: StatusOutOfStock,
			expected: StatusOutOfStock,
		},
		{
			name:     "unrecognized override falls back to stock rule",
			stock:    500,
			override: ItemStatus("Discontinued"),
			expected: StatusInStock,
		},
		{
			name:     "empty override falls back to stock rule",
			stock:    3,
			override: "",
			expected: StatusLowStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.stock, tt.override))
		})
	}
}

func TestDeriveRevenue(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		unitPrice string
		expected  string
	}{
		{
			name:      "simple multiplication",
			stock:     5,
			unitPrice: "2.00",
			expected:  "10.00",
		},
		{
			name:      "zero stock yields zero revenue",
			stock:     0,
			unitPrice: "19.99",
			expected:  "0.00",
		},
		{
			name:      "result rounded to two decimal places",
			stock:     3,
			unitPrice: "0.333",
			expected:  "1.00",
		},
		{
			name:      "negative stock yields negative revenue",
			stock:     -2,
			unitPrice: "4.50",
			expected:  "-9.00",
		},
		{
			name:      "large quantities keep exact cents",
			stock:     100000,
			unitPrice: "1.01",
			expected:  "101000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.unitPrice)
			got := DeriveRevenue(tt.stock, price)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestItemRecalculate(t *testing.T) {
	item := &Item{
		Stock:     7,
		UnitPrice: decimal.RequireFromString("3.50"),
	}

	item.Recalculate("")

	assert.Equal(t, StatusLowStock, item.Status)
	assert.Equal(t, "24.50", item.TotalRevenue.StringFixed(2))

	item.Stock = 0
	item.Recalculate(StatusInStock)

	assert.Equal(t, StatusInStock, item.Status, "valid override should stick")
	assert.Equal(t, "0.00", item.TotalRevenue.StringFixed(2))
}

func TestItemMarshalJSON(t *testing.T) {
	item := Item{
		ID:           42,
		SKU:          "WDG-001",
		Name:         "Widget",
		Category:     "Hardware",
		Supplier:     "Acme",
		Stock:        5,
		UnitPrice:    decimal.RequireFromString("2.00"),
		TotalRevenue: decimal.RequireFromString("10.00"),
		Status:       StatusLowStock,
		UpdatedAt:    time.Date(2025, 6, 15, 13, 45, 12, 0, time.UTC),
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, float64(42), got["id"])
	assert.Equal(t, "WDG-001", got["sku"])
	assert.Equal(t, 2.00, got["unit_price"])
	assert.Equal(t, 10.00, got["total_revenue"])
	assert.Equal(t, "Low Stock", got["status"])
	assert.Equal(t, "2025-06-15", got["updated_at"], "timestamp should serialize as a bare date")
}

func TestValidationError(t *testing.T) {
	err := NewMissingFieldError("sku")
	assert.Equal(t, "Missing required field: sku", err.Error())
	assert.True(t, IsValidation(err))

	wrapped := NewValidationError("unit_price", "unit_price must be a number")
	assert.Equal(t, "unit_price must be a number", wrapped.Error())
	assert.False(t, IsValidation(ErrNotFound))
}
