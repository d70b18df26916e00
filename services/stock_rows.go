package services

import (
	"variant-editor-service/models"

	"github.com/shopspring/decimal"
)

// InitStockRows builds the rows of a fresh variant: one per size, in ordinal order, quantity 0.
// Prices start at the reference price in unique mode and at zero otherwise.
func InitStockRows(sys *models.SizeSystem, mode models.PricingMode, reference decimal.NullDecimal) []models.StockRow {
	sizes := sys.OrderedSizes()
	rows := make([]models.StockRow, 0, len(sizes))
	price := decimal.Zero
	if mode == models.PricingModeUnique && reference.Valid {
		price = reference.Decimal
	}
	for _, size := range sizes {
		rows = append(rows, models.StockRow{
			SizeID:    size.ID,
			SizeLabel: size.Label,
			Price:     price,
		})
	}
	return rows
}

// HydrateStockRows lines persisted rows up with the current size system. Sizes without a
// persisted row get a zero row; persisted rows for sizes no longer in the system are dropped.
func HydrateStockRows(sys *models.SizeSystem, persisted []models.StockRow) []models.StockRow {
	bySize := make(map[string]models.StockRow, len(persisted))
	for _, row := range persisted {
		bySize[row.SizeID] = row
	}

	sizes := sys.OrderedSizes()
	rows := make([]models.StockRow, 0, len(sizes))
	for _, size := range sizes {
		row, ok := bySize[size.ID]
		if !ok {
			rows = append(rows, models.StockRow{SizeID: size.ID, SizeLabel: size.Label, Price: decimal.Zero})
			continue
		}
		if row.OriginalPrice != nil {
			p := *row.OriginalPrice
			row.OriginalPrice = &p
		}
		row.SizeLabel = size.Label
		rows = append(rows, row)
	}
	return rows
}
