package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestProduct_Validation(t *testing.T) {
	valid, err := NewProduct("P1", "TILE-60", 540, 135, 9, 12, floatPtr(0.4), 5, floatPtr(0.3), 2)
	require.NoError(t, err)
	assert.Equal(t, ProductID("P1"), valid.ID)
	assert.InDelta(t, 675.0, valid.AvailableM2(), 1e-9)

	testCases := []struct {
		name        string
		id          ProductID
		sku         string
		warehouse   float64
		transit     float64
		velocity    float64
		weeks       int
		unique      int
		share       *float64
		recurring   int
		expectError string
	}{
		{"empty id", "", "SKU", 0, 0, 0, 0, 0, nil, 0, "product id cannot be empty"},
		{"empty sku", "P1", "", 0, 0, 0, 0, 0, nil, 0, "sku cannot be empty"},
		{"negative warehouse", "P1", "SKU", -1, 0, 0, 0, 0, nil, 0, "warehouse stock cannot be negative, got -1"},
		{"negative transit", "P1", "SKU", 0, -2, 0, 0, 0, nil, 0, "in-transit stock cannot be negative, got -2"},
		{"negative velocity", "P1", "SKU", 0, 0, -0.5, 0, 0, nil, 0, "daily velocity cannot be negative, got -0.5"},
		{"negative weeks", "P1", "SKU", 0, 0, 0, -1, 0, nil, 0, "weeks of data cannot be negative, got -1"},
		{
			"recurring above unique",
			"P1", "SKU", 0, 0, 0, 0, 2, nil, 3,
			"recurring customers (3) must be between 0 and unique customers (2)",
		},
		{"share above one", "P1", "SKU", 0, 0, 0, 0, 1, floatPtr(1.5), 0, "top customer share must be within [0,1], got 1.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.id, tc.sku, tc.warehouse, tc.transit, tc.velocity, tc.weeks, nil, tc.unique, tc.share, tc.recurring)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestProduct_DaysUntilEmpty(t *testing.T) {
	p := &Product{ID: "P1", SKU: "SKU", WarehouseStockM2: 200, InTransitM2: 100, DailyVelocity: 10}
	days, finite := p.DaysUntilEmpty()
	assert.True(t, finite)
	assert.InDelta(t, 30.0, days, 1e-9)

	p.DailyVelocity = 0
	_, finite = p.DaysUntilEmpty()
	assert.False(t, finite)
}
