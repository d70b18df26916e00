package services_test

import (
	"math"
	"testing"

	"variant-editor-service/models"
	"variant-editor-service/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueVariant(price string) *models.Variant {
	ref := decimal.NewNullDecimal(dec(price))
	return &models.Variant{
		Name:           "Blue",
		PricingMode:    models.PricingModeUnique,
		ReferencePrice: ref,
		Stock:          services.InitStockRows(apparelSizes(), models.PricingModeUnique, ref),
	}
}

func assertRowPrices(t *testing.T, v *models.Variant, want string) {
	t.Helper()
	for _, row := range v.Stock {
		assert.True(t, row.Price.Equal(dec(want)), "size %s: got %s want %s", row.SizeID, row.Price, want)
	}
}

func TestSetReferencePrice_BroadcastsToEveryRow(t *testing.T) {
	v := uniqueVariant("100")

	require.NoError(t, services.SetReferencePrice(v, dec("79.99")))

	assertRowPrices(t, v, "79.99")
	assert.True(t, v.ReferencePrice.Decimal.Equal(dec("79.99")))
}

func TestSetReferenceOriginalPrice_SetAndClear(t *testing.T) {
	v := uniqueVariant("100")

	require.NoError(t, services.SetReferenceOriginalPrice(v, decPtr("120")))
	for _, row := range v.Stock {
		require.NotNil(t, row.OriginalPrice)
		assert.True(t, row.OriginalPrice.Equal(dec("120")))
	}

	require.NoError(t, services.SetReferenceOriginalPrice(v, nil))
	assert.False(t, v.ReferenceOriginalPrice.Valid)
	for _, row := range v.Stock {
		assert.Nil(t, row.OriginalPrice)
	}
}

func TestPricingModeMismatch_DoesNotMutate(t *testing.T) {
	v := uniqueVariant("100")
	err := services.SetRowPrice(v, "m", dec("5"))
	assert.ErrorIs(t, err, services.ErrPricingModeMismatch)
	assertRowPrices(t, v, "100")

	require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
	err = services.SetReferencePrice(v, dec("1"))
	assert.ErrorIs(t, err, services.ErrPricingModeMismatch)
	assert.True(t, v.ReferencePrice.Decimal.Equal(dec("100")))
	err = services.SetReferenceOriginalPrice(v, decPtr("1"))
	assert.ErrorIs(t, err, services.ErrPricingModeMismatch)
}

func TestSetPricingMode_PerSizeKeepsRows(t *testing.T) {
	v := uniqueVariant("100")

	require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
	require.NoError(t, services.SetRowPrice(v, "m", dec("120")))
	require.NoError(t, services.SetRowOriginalPrice(v, "m", decPtr("150")))

	assert.True(t, v.Row("m").Price.Equal(dec("120")))
	assert.True(t, v.Row("m").OriginalPrice.Equal(dec("150")))
	assert.True(t, v.Row("xs").Price.Equal(dec("100")))
}

func TestSetPricingMode_RoundTripCollapsesPerSizePrices(t *testing.T) {
	v := uniqueVariant("100")
	require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
	require.NoError(t, services.SetRowPrice(v, "xs", dec("80")))
	require.NoError(t, services.SetRowPrice(v, "m", dec("120")))

	require.NoError(t, services.SetPricingMode(v, models.PricingModeUnique))
	require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))

	assertRowPrices(t, v, "100")
}

func TestSetPricingMode_NullReferenceCollapsesToFirstRow(t *testing.T) {
	v := &models.Variant{
		PricingMode: models.PricingModeUnique,
		Stock:       services.InitStockRows(apparelSizes(), models.PricingModeUnique, decimal.NullDecimal{}),
	}
	require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
	require.NoError(t, services.SetRowPrice(v, "xs", dec("10")))
	require.NoError(t, services.SetRowPrice(v, "s", dec("20")))

	require.NoError(t, services.SetPricingMode(v, models.PricingModeUnique))

	require.True(t, v.ReferencePrice.Valid)
	assert.True(t, v.ReferencePrice.Decimal.Equal(dec("10")))
	assertRowPrices(t, v, "10")
}

func TestSetPricingMode_UniqueMakesOriginalPricesUniform(t *testing.T) {
	t.Run("adopts first row", func(t *testing.T) {
		v := uniqueVariant("100")
		require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
		require.NoError(t, services.SetRowOriginalPrice(v, "xs", decPtr("130")))
		require.NoError(t, services.SetRowOriginalPrice(v, "m", decPtr("150")))

		require.NoError(t, services.SetPricingMode(v, models.PricingModeUnique))

		require.True(t, v.ReferenceOriginalPrice.Valid)
		for _, row := range v.Stock {
			require.NotNil(t, row.OriginalPrice, "size %s", row.SizeID)
			assert.True(t, row.OriginalPrice.Equal(dec("130")), "size %s", row.SizeID)
		}
	})

	t.Run("clears when first row has none", func(t *testing.T) {
		v := uniqueVariant("100")
		require.NoError(t, services.SetPricingMode(v, models.PricingModePerSize))
		require.NoError(t, services.SetRowOriginalPrice(v, "m", decPtr("150")))

		require.NoError(t, services.SetPricingMode(v, models.PricingModeUnique))

		assert.False(t, v.ReferenceOriginalPrice.Valid)
		for _, row := range v.Stock {
			assert.Nil(t, row.OriginalPrice, "size %s", row.SizeID)
		}
	})
}

func TestValidatePricing_LargeQuantitiesDoNotWrap(t *testing.T) {
	v := uniqueVariant("1")
	v.Stock[0].Quantity = math.MaxInt
	v.Stock[1].Quantity = math.MaxInt
	v.Stock[2].Quantity = 2

	assert.NoError(t, services.ValidatePricing(v))
	assert.Equal(t, math.MaxInt, v.TotalQuantity())
}

func TestApplyPricingUpdate_ModeThenReference(t *testing.T) {
	v := &models.Variant{
		PricingMode: models.PricingModePerSize,
		Stock:       services.InitStockRows(apparelSizes(), models.PricingModePerSize, decimal.NullDecimal{}),
	}
	unique := models.PricingModeUnique
	price := dec("42")

	require.NoError(t, services.ApplyPricingUpdate(v, services.PricingUpdate{Mode: &unique, ReferencePrice: &price}))

	assert.Equal(t, models.PricingModeUnique, v.PricingMode)
	assertRowPrices(t, v, "42")
}

func TestSetPricingMode_Unknown(t *testing.T) {
	v := uniqueVariant("100")
	err := services.SetPricingMode(v, "tiered")
	assert.Equal(t, services.KindValidation, services.KindOf(err))
	assert.Equal(t, models.PricingModeUnique, v.PricingMode)
}

func TestSetRowQuantity(t *testing.T) {
	v := uniqueVariant("100")

	require.NoError(t, services.SetRowQuantity(v, "s", 3))
	assert.Equal(t, 3, v.Row("s").Quantity)

	assert.Equal(t, services.KindValidation, services.KindOf(services.SetRowQuantity(v, "s", -1)))
	assert.Equal(t, 3, v.Row("s").Quantity)

	assert.ErrorIs(t, services.SetRowQuantity(v, "xxl", 1), services.ErrUnknownSize)
}

func TestValidatePricing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *models.Variant)
		wantErr error
		kind    services.ErrorKind
	}{
		{
			name:   "valid unique",
			mutate: func(v *models.Variant) { v.Stock[0].Quantity = 1 },
		},
		{
			name:    "zero total stock",
			mutate:  func(v *models.Variant) {},
			wantErr: services.ErrNoStockConfigured,
			kind:    services.KindValidation,
		},
		{
			name: "missing reference price",
			mutate: func(v *models.Variant) {
				v.Stock[0].Quantity = 1
				v.ReferencePrice = decimal.NullDecimal{}
			},
			kind: services.KindValidation,
		},
		{
			name: "negative reference price",
			mutate: func(v *models.Variant) {
				v.Stock[0].Quantity = 1
				_ = services.SetReferencePrice(v, dec("-1"))
			},
			kind: services.KindValidation,
		},
		{
			name: "negative per-size row price",
			mutate: func(v *models.Variant) {
				v.Stock[0].Quantity = 1
				_ = services.SetPricingMode(v, models.PricingModePerSize)
				_ = services.SetRowPrice(v, "m", dec("-0.01"))
			},
			kind: services.KindValidation,
		},
		{
			name: "valid per-size with zero-price rows",
			mutate: func(v *models.Variant) {
				_ = services.SetPricingMode(v, models.PricingModePerSize)
				_ = services.SetRowPrice(v, "xs", dec("0"))
				v.Stock[1].Quantity = 2
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := uniqueVariant("100")
			tc.mutate(v)
			err := services.ValidatePricing(v)
			if tc.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.kind, services.KindOf(err))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
