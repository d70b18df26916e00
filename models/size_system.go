package models

import "sort"

// Size is one entry of a SizeSystem. Ordinal drives display and stock-row order.
type Size struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Ordinal int    `json:"ordinal"`
}

// SizeSystem is an ordered size taxonomy (e.g. XS/S/M/L) owned by catalog configuration.
type SizeSystem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Sizes []Size `json:"sizes"`
}

// OrderedSizes returns a copy of the sizes sorted by ordinal. Ties keep their source order.
func (s *SizeSystem) OrderedSizes() []Size {
	if s == nil {
		return nil
	}
	sizes := make([]Size, len(s.Sizes))
	copy(sizes, s.Sizes)
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Ordinal < sizes[j].Ordinal
	})
	return sizes
}
