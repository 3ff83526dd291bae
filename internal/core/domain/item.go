// internal/core/domain/item.go
package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus represents the stock level classification of an item
type ItemStatus string

const (
	StatusInStock    ItemStatus = "In Stock"
	StatusLowStock   ItemStatus = "Low Stock"
	StatusOutOfStock ItemStatus = "Out of Stock"
)

// LowStockThreshold is the stock level at or below which an item is
// considered low on stock (when it is not already out of stock).
const LowStockThreshold = 10

// IsValid checks whether the status is one of the recognized values
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// Item represents a single inventory record. TotalRevenue and Status are
// derived from Stock and UnitPrice on every write and never trusted from
// client input (Status may be overridden with a recognized value).
type Item struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Supplier     string          `json:"supplier"`
	Stock        int             `json:"stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Status       ItemStatus      `json:"status"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DeriveStatus resolves an item's status. A recognized override wins;
// anything else falls back to the stock-level rule.
func DeriveStatus(stock int, override ItemStatus) ItemStatus {
	if override.IsValid() {
		return override
	}
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// DeriveRevenue computes stock * unit price rounded to 2 decimal places
func DeriveRevenue(stock int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(stock))).Round(2)
}

// Recalculate refreshes the derived fields from the item's current
// stock and unit price. Status is re-derived with the given override.
func (i *Item) Recalculate(statusOverride ItemStatus) {
	i.TotalRevenue = DeriveRevenue(i.Stock, i.UnitPrice)
	i.Status = DeriveStatus(i.Stock, statusOverride)
}

// MarshalJSON renders monetary fields as plain numbers and the update
// timestamp as a date. This is the wire shape all endpoints return.
func (i Item) MarshalJSON() ([]byte, error) {
	type itemJSON struct {
		ID           int64   `json:"id"`
		SKU          string  `json:"sku"`
		Name         string  `json:"name"`
		Category     string  `json:"category"`
		Supplier     string  `json:"supplier"`
		Stock        int     `json:"stock"`
		UnitPrice    float64 `json:"unit_price"`
		TotalRevenue float64 `json:"total_revenue"`
		Status       string  `json:"status"`
		UpdatedAt    string  `json:"updated_at"`
	}
	return json.Marshal(itemJSON{
		ID:           i.ID,
		SKU:          i.SKU,
		Name:         i.Name,
		Category:     i.Category,
		Supplier:     i.Supplier,
		Stock:        i.Stock,
		UnitPrice:    i.UnitPrice.InexactFloat64(),
		TotalRevenue: i.TotalRevenue.InexactFloat64(),
		Status:       string(i.Status),
		UpdatedAt:    i.UpdatedAt.Format("2006-01-02"),
	})
}
