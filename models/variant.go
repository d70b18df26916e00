package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// PricingMode says whether a variant has one price for all sizes or a price per size.
type PricingMode string

const (
	PricingModeUnique  PricingMode = "unique"
	PricingModePerSize PricingMode = "per_size"
)

// Valid reports whether m is a known pricing mode.
func (m PricingMode) Valid() bool {
	return m == PricingModeUnique || m == PricingModePerSize
}

// Product is the catalog entity a variant belongs to.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CategoryID   string `json:"category_id"`
	Brand        string `json:"brand"`
	SizeSystemID string `json:"size_system_id"`
}

// StockRow holds quantity and pricing for one size of one variant.
type StockRow struct {
	SizeID        string           `json:"size_id"`
	SizeLabel     string           `json:"size_label,omitempty"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
}

// Equal compares rows by value. Decimals are compared numerically, so 100 equals 100.00.
func (r StockRow) Equal(o StockRow) bool {
	return r.SizeID == o.SizeID &&
		r.Quantity == o.Quantity &&
		r.Price.Equal(o.Price) &&
		equalDecimalPtr(r.OriginalPrice, o.OriginalPrice)
}

// Variant is a sellable variant of a product: name, pricing, ordered images and one stock row per size.
type Variant struct {
	ID                     string              `json:"id,omitempty"`
	ProductID              string              `json:"product_id,omitempty"`
	Name                   string              `json:"name" validate:"required"`
	PricingMode            PricingMode         `json:"pricing_mode"`
	ReferencePrice         decimal.NullDecimal `json:"reference_price"`
	ReferenceOriginalPrice decimal.NullDecimal `json:"reference_original_price"`
	Images                 []Image             `json:"images"`
	Stock                  []StockRow          `json:"stock"`
}

// Clone returns a deep copy. Staged images share their preview handle with the original.
func (v Variant) Clone() Variant {
	out := v
	if v.Images != nil {
		out.Images = make([]Image, len(v.Images))
		copy(out.Images, v.Images)
	}
	if v.Stock != nil {
		out.Stock = make([]StockRow, len(v.Stock))
		for i, row := range v.Stock {
			out.Stock[i] = row
			if row.OriginalPrice != nil {
				p := *row.OriginalPrice
				out.Stock[i].OriginalPrice = &p
			}
		}
	}
	return out
}

// Row returns the stock row for sizeID, or nil.
func (v *Variant) Row(sizeID string) *StockRow {
	for i := range v.Stock {
		if v.Stock[i].SizeID == sizeID {
			return &v.Stock[i]
		}
	}
	return nil
}

// HasStock reports whether any row carries a positive quantity.
func (v *Variant) HasStock() bool {
	for _, row := range v.Stock {
		if row.Quantity > 0 {
			return true
		}
	}
	return false
}

// TotalQuantity sums quantities across all stock rows, saturating at math.MaxInt.
func (v *Variant) TotalQuantity() int {
	total := 0
	for _, row := range v.Stock {
		if row.Quantity > 0 && total > math.MaxInt-row.Quantity {
			return math.MaxInt
		}
		total += row.Quantity
	}
	return total
}

func equalDecimalPtr(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// EqualNullDecimal compares two optional decimals by value.
func EqualNullDecimal(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}
