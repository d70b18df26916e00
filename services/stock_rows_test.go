package services_test

import (
	"testing"

	"variant-editor-service/models"
	"variant-editor-service/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStockRows_OneZeroRowPerSizeInOrdinalOrder(t *testing.T) {
	rows := services.InitStockRows(apparelSizes(), models.PricingModePerSize, decimal.NullDecimal{})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"xs", "s", "m"}, []string{rows[0].SizeID, rows[1].SizeID, rows[2].SizeID})
	for _, row := range rows {
		assert.Equal(t, 0, row.Quantity)
		assert.True(t, row.Price.IsZero())
		assert.Nil(t, row.OriginalPrice)
	}
	assert.Equal(t, "XS", rows[0].SizeLabel)
}

func TestInitStockRows_UniqueModeUsesReferencePrice(t *testing.T) {
	rows := services.InitStockRows(apparelSizes(), models.PricingModeUnique, decimal.NewNullDecimal(dec("100")))

	for _, row := range rows {
		assert.True(t, row.Price.Equal(dec("100")), "size %s", row.SizeID)
	}
}

func TestInitStockRows_TiesKeepSourceOrder(t *testing.T) {
	sys := &models.SizeSystem{ID: "shoes", Sizes: []models.Size{
		{ID: "b", Ordinal: 1},
		{ID: "a", Ordinal: 1},
		{ID: "c", Ordinal: 0},
	}}

	rows := services.InitStockRows(sys, models.PricingModeUnique, decimal.NullDecimal{})

	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].SizeID)
	assert.Equal(t, "b", rows[1].SizeID)
	assert.Equal(t, "a", rows[2].SizeID)
}

func TestInitStockRows_NilOrEmptySystem(t *testing.T) {
	assert.Empty(t, services.InitStockRows(nil, models.PricingModeUnique, decimal.NullDecimal{}))
	assert.Empty(t, services.InitStockRows(&models.SizeSystem{ID: "empty"}, models.PricingModeUnique, decimal.NullDecimal{}))
}

func TestHydrateStockRows_CarriesOverAndSynthesizes(t *testing.T) {
	persisted := []models.StockRow{
		{SizeID: "m", Quantity: 4, Price: dec("25.50"), OriginalPrice: decPtr("30")},
		{SizeID: "xs", Quantity: 1, Price: dec("20")},
		{SizeID: "xxl", Quantity: 9, Price: dec("99")},
	}

	rows := services.HydrateStockRows(apparelSizes(), persisted)

	require.Len(t, rows, 3, "rows for removed sizes must be dropped")
	assert.Equal(t, "xs", rows[0].SizeID)
	assert.Equal(t, 1, rows[0].Quantity)

	assert.Equal(t, "s", rows[1].SizeID)
	assert.Equal(t, 0, rows[1].Quantity)
	assert.True(t, rows[1].Price.IsZero())
	assert.Equal(t, "S", rows[1].SizeLabel)

	assert.Equal(t, "m", rows[2].SizeID)
	assert.Equal(t, 4, rows[2].Quantity)
	assert.True(t, rows[2].Price.Equal(dec("25.5")))
	require.NotNil(t, rows[2].OriginalPrice)
	assert.True(t, rows[2].OriginalPrice.Equal(dec("30")))

	*rows[2].OriginalPrice = dec("1")
	assert.True(t, persisted[0].OriginalPrice.Equal(dec("30")), "hydrated rows must not alias persisted ones")
}
