package models

import "github.com/shopspring/decimal"

// StockRowPayload is a stock row as sent to the catalog API.
type StockRowPayload struct {
	SizeID        string           `json:"size_id"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
}

// VariantPayload is the body of create/update variant calls.
// ReferencePrice is only set in unique pricing mode.
type VariantPayload struct {
	Name                   string            `json:"name"`
	PricingMode            PricingMode       `json:"pricing_mode"`
	ReferencePrice         *decimal.Decimal  `json:"reference_price,omitempty"`
	ReferenceOriginalPrice *decimal.Decimal  `json:"reference_original_price,omitempty"`
	Images                 []ImageRef        `json:"images"`
	Stock                  []StockRowPayload `json:"stock"`
}

// ProductPayload is the body of the new-product call; it carries the first variant.
type ProductPayload struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	CategoryID   string         `json:"category_id"`
	Brand        string         `json:"brand"`
	SizeSystemID string         `json:"size_system_id"`
	Variant      VariantPayload `json:"variant"`
}

// SaveResult is what the catalog API returns after a successful create or update.
type SaveResult struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}
