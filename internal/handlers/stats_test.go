// internal/handlers/stats_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/invenda/inventory-be/internal/core/ports"
	"github.com/invenda/inventory-be/internal/handlers"
	"github.com/invenda/inventory-be/test/helpers"
	"github.com/invenda/inventory-be/test/mocks"
)

func TestStatsHandler_GetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockStatsService(ctrl)
	handler := handlers.NewStatsHandler(service, helpers.TestLogger())

	service.EXPECT().Summary(gomock.Any()).Return(&ports.Stats{
		TotalItems: 3,
		TotalValue: 260.00,
		StatusCounts: map[string]int64{
			"In Stock":     1,
			"Low Stock":    1,
			"Out of Stock": 1,
		},
		Categories: []ports.CategoryStat{
			{Category: "Hardware", Count: 2, TotalStock: 25},
			{Category: "Tools", Count: 1, TotalStock: 0},
		},
		SuppliersCount: 2,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.GetStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["total_items"])
	assert.Equal(t, 260.00, body["total_value"])
	assert.Equal(t, float64(2), body["suppliers_count"])

	counts := body["status_counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["Low Stock"])

	categories := body["categories"].([]interface{})
	require.Len(t, categories, 2)
	hardware := categories[0].(map[string]interface{})
	assert.Equal(t, "Hardware", hardware["category"])
	assert.Equal(t, float64(25), hardware["total_stock"])
}

func TestStatsHandler_GetStats_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockStatsService(ctrl)
	handler := handlers.NewStatsHandler(service, helpers.TestLogger())

	service.EXPECT().Summary(gomock.Any()).Return(nil, errors.New("query timeout"))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.GetStats(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
