package services

import (
	"variant-editor-service/models"

	"github.com/shopspring/decimal"
)

// SetPricingMode switches pricing mode. Switching to unique overwrites every row with the
// reference values; switching to per_size keeps rows as they are. A missing reference is
// taken from the first row so the collapsed rows always match a defined price.
func SetPricingMode(v *models.Variant, mode models.PricingMode) error {
	if !mode.Valid() {
		return validationError("unknown pricing mode %q", mode)
	}
	v.PricingMode = mode
	if mode == models.PricingModeUnique {
		collapseToReference(v)
	}
	return nil
}

// PricingUpdate is a set of pricing changes applied together.
type PricingUpdate struct {
	Mode                        *models.PricingMode
	ReferencePrice              *decimal.Decimal
	ReferenceOriginalPrice      *decimal.Decimal
	ClearReferenceOriginalPrice bool
}

// ApplyPricingUpdate applies u in order (mode first). Either every change is applied or none.
func ApplyPricingUpdate(v *models.Variant, u PricingUpdate) error {
	return applyAll(v, func(draft *models.Variant) error {
		if u.Mode != nil {
			if err := SetPricingMode(draft, *u.Mode); err != nil {
				return err
			}
		}
		if u.ReferencePrice != nil {
			if err := SetReferencePrice(draft, *u.ReferencePrice); err != nil {
				return err
			}
		}
		if u.ReferenceOriginalPrice != nil || u.ClearReferenceOriginalPrice {
			return SetReferenceOriginalPrice(draft, u.ReferenceOriginalPrice)
		}
		return nil
	})
}

// RowUpdate is a set of changes to one stock row applied together.
type RowUpdate struct {
	Quantity           *int
	Price              *decimal.Decimal
	OriginalPrice      *decimal.Decimal
	ClearOriginalPrice bool
}

// ApplyRowUpdate applies u to the row of sizeID. Either every change is applied or none.
func ApplyRowUpdate(v *models.Variant, sizeID string, u RowUpdate) error {
	return applyAll(v, func(draft *models.Variant) error {
		if u.Quantity != nil {
			if err := SetRowQuantity(draft, sizeID, *u.Quantity); err != nil {
				return err
			}
		}
		if u.Price != nil {
			if err := SetRowPrice(draft, sizeID, *u.Price); err != nil {
				return err
			}
		}
		if u.OriginalPrice != nil || u.ClearOriginalPrice {
			return SetRowOriginalPrice(draft, sizeID, u.OriginalPrice)
		}
		return nil
	})
}

// applyAll runs fn on a copy and commits the pricing fields only when it succeeds.
func applyAll(v *models.Variant, fn func(draft *models.Variant) error) error {
	draft := v.Clone()
	if err := fn(&draft); err != nil {
		return err
	}
	v.PricingMode = draft.PricingMode
	v.ReferencePrice = draft.ReferencePrice
	v.ReferenceOriginalPrice = draft.ReferenceOriginalPrice
	v.Stock = draft.Stock
	return nil
}

// SetReferencePrice sets the shared price and mirrors it into every row. Unique mode only.
func SetReferencePrice(v *models.Variant, price decimal.Decimal) error {
	if v.PricingMode != models.PricingModeUnique {
		return ErrPricingModeMismatch
	}
	v.ReferencePrice = decimal.NewNullDecimal(price)
	broadcastReference(v)
	return nil
}

// SetReferenceOriginalPrice sets or clears (nil) the shared struck-through price. Unique mode only.
func SetReferenceOriginalPrice(v *models.Variant, price *decimal.Decimal) error {
	if v.PricingMode != models.PricingModeUnique {
		return ErrPricingModeMismatch
	}
	if price == nil {
		v.ReferenceOriginalPrice = decimal.NullDecimal{}
		for i := range v.Stock {
			v.Stock[i].OriginalPrice = nil
		}
		return nil
	}
	v.ReferenceOriginalPrice = decimal.NewNullDecimal(*price)
	broadcastReference(v)
	return nil
}

// SetRowPrice changes the price of one size. Per-size mode only.
func SetRowPrice(v *models.Variant, sizeID string, price decimal.Decimal) error {
	if v.PricingMode != models.PricingModePerSize {
		return ErrPricingModeMismatch
	}
	row := v.Row(sizeID)
	if row == nil {
		return ErrUnknownSize
	}
	row.Price = price
	return nil
}

// SetRowOriginalPrice sets or clears the struck-through price of one size. Per-size mode only.
func SetRowOriginalPrice(v *models.Variant, sizeID string, price *decimal.Decimal) error {
	if v.PricingMode != models.PricingModePerSize {
		return ErrPricingModeMismatch
	}
	row := v.Row(sizeID)
	if row == nil {
		return ErrUnknownSize
	}
	if price == nil {
		row.OriginalPrice = nil
		return nil
	}
	p := *price
	row.OriginalPrice = &p
	return nil
}

// SetRowQuantity changes the stock of one size in any pricing mode.
func SetRowQuantity(v *models.Variant, sizeID string, quantity int) error {
	if quantity < 0 {
		return validationError("quantity must not be negative")
	}
	row := v.Row(sizeID)
	if row == nil {
		return ErrUnknownSize
	}
	row.Quantity = quantity
	return nil
}

// ValidatePricing checks prices and stock before submission.
func ValidatePricing(v *models.Variant) error {
	switch v.PricingMode {
	case models.PricingModeUnique:
		if !v.ReferencePrice.Valid {
			return validationError("reference price is required")
		}
		if v.ReferencePrice.Decimal.IsNegative() {
			return validationError("reference price must not be negative")
		}
		if v.ReferenceOriginalPrice.Valid && v.ReferenceOriginalPrice.Decimal.IsNegative() {
			return validationError("original price must not be negative")
		}
	case models.PricingModePerSize:
		for _, row := range v.Stock {
			if row.Price.IsNegative() {
				return validationError("price for size %s must not be negative", rowName(row))
			}
			if row.OriginalPrice != nil && row.OriginalPrice.IsNegative() {
				return validationError("original price for size %s must not be negative", rowName(row))
			}
		}
	default:
		return validationError("unknown pricing mode %q", v.PricingMode)
	}

	for _, row := range v.Stock {
		if row.Quantity < 0 {
			return validationError("quantity for size %s must not be negative", rowName(row))
		}
	}
	if !v.HasStock() {
		return ErrNoStockConfigured
	}
	return nil
}

// collapseToReference makes a unique-mode variant uniform. Missing reference values are
// adopted from the first row, then mirrored into every row.
func collapseToReference(v *models.Variant) {
	if len(v.Stock) > 0 {
		first := v.Stock[0]
		if !v.ReferencePrice.Valid {
			v.ReferencePrice = decimal.NewNullDecimal(first.Price)
		}
		if !v.ReferenceOriginalPrice.Valid && first.OriginalPrice != nil {
			v.ReferenceOriginalPrice = decimal.NewNullDecimal(*first.OriginalPrice)
		}
	}
	broadcastReference(v)
}

// broadcastReference mirrors the reference values into every row. A null reference price
// leaves row prices alone; a null reference original price clears every row's.
func broadcastReference(v *models.Variant) {
	for i := range v.Stock {
		if v.ReferencePrice.Valid {
			v.Stock[i].Price = v.ReferencePrice.Decimal
		}
		if v.ReferenceOriginalPrice.Valid {
			p := v.ReferenceOriginalPrice.Decimal
			v.Stock[i].OriginalPrice = &p
		} else {
			v.Stock[i].OriginalPrice = nil
		}
	}
}

func rowName(row models.StockRow) string {
	if row.SizeLabel != "" {
		return row.SizeLabel
	}
	return row.SizeID
}
