package services

import "variant-editor-service/models"

// HasChanges compares the working draft with the snapshot taken when editing began.
// Any staged image counts as a change.
func HasChanges(snapshot, working models.Draft) bool {
	switch w := working.(type) {
	case *models.ProductDraft:
		s, ok := snapshot.(*models.ProductDraft)
		if !ok {
			return true
		}
		return w.Product != s.Product || variantChanged(&s.Variant, &w.Variant)
	case *models.VariantDraft:
		s, ok := snapshot.(*models.VariantDraft)
		if !ok {
			return true
		}
		return w.ProductID != s.ProductID ||
			w.SizeSystemID != s.SizeSystemID ||
			variantChanged(&s.Variant, &w.Variant)
	default:
		return true
	}
}

func variantChanged(before, after *models.Variant) bool {
	if before.ID != after.ID ||
		before.Name != after.Name ||
		before.PricingMode != after.PricingMode ||
		!models.EqualNullDecimal(before.ReferencePrice, after.ReferencePrice) ||
		!models.EqualNullDecimal(before.ReferenceOriginalPrice, after.ReferenceOriginalPrice) {
		return true
	}

	if len(before.Stock) != len(after.Stock) {
		return true
	}
	for i := range before.Stock {
		if !before.Stock[i].Equal(after.Stock[i]) {
			return true
		}
	}

	if len(before.Images) != len(after.Images) {
		return true
	}
	for i := range after.Images {
		if after.Images[i].IsStaged() || before.Images[i].IsStaged() {
			return true
		}
		if before.Images[i].PermanentID != after.Images[i].PermanentID {
			return true
		}
	}
	return false
}
