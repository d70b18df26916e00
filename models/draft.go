package models

// ProductFields are the product attributes captured by the new-product flow.
type ProductFields struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	CategoryID   string `json:"category_id" validate:"required"`
	Brand        string `json:"brand" validate:"required"`
	SizeSystemID string `json:"size_system_id" validate:"required"`
}

// Draft is the working state of an editor session. It is either a *ProductDraft
// (new product with its first variant) or a *VariantDraft (variant of an existing product).
type Draft interface {
	VariantRef() *Variant
	Clone() Draft
	isDraft()
}

// ProductDraft is the new-product flow: product fields plus the first variant.
type ProductDraft struct {
	Product ProductFields `json:"product"`
	Variant Variant       `json:"variant"`
}

func (d *ProductDraft) VariantRef() *Variant { return &d.Variant }

func (d *ProductDraft) Clone() Draft {
	return &ProductDraft{Product: d.Product, Variant: d.Variant.Clone()}
}

func (*ProductDraft) isDraft() {}

// VariantDraft adds (Variant.ID empty) or edits (Variant.ID set) a variant of an existing product.
type VariantDraft struct {
	ProductID    string  `json:"product_id"`
	SizeSystemID string  `json:"size_system_id"`
	Variant      Variant `json:"variant"`
}

func (d *VariantDraft) VariantRef() *Variant { return &d.Variant }

func (d *VariantDraft) Clone() Draft {
	return &VariantDraft{ProductID: d.ProductID, SizeSystemID: d.SizeSystemID, Variant: d.Variant.Clone()}
}

func (*VariantDraft) isDraft() {}

// IsUpdate reports whether the draft edits an already persisted variant.
func (d *VariantDraft) IsUpdate() bool {
	return d.Variant.ID != ""
}
