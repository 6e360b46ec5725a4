// Package filter evaluates search constraints against an in-memory
// jewelry collection.
package filter

import (
	"strings"

	"github.com/erazemk/ornate/internal/model"
)

// Evaluate returns the items that satisfy every constraint in f, in their
// original relative order. The result never aliases items.
func Evaluate(items []model.JewelryItem, f model.SearchFilters) []model.JewelryItem {
	out := make([]model.JewelryItem, 0, len(items))
	for _, it := range items {
		if Matches(&it, f) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// Matches reports whether a single item satisfies all active constraints.
func Matches(it *model.JewelryItem, f model.SearchFilters) bool {
	if f.Category != 0 && it.Category != f.Category {
		return false
	}
	if f.OutfitType != 0 && !it.HasOutfitType(f.OutfitType) {
		return false
	}
	if f.SearchQuery != "" && !matchesText(it, f.SearchQuery) {
		return false
	}
	return true
}

// matchesText does a case-insensitive substring match against name,
// description, color and material. Empty fields never match.
func matchesText(it *model.JewelryItem, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{it.Name, it.Description, it.Color, it.Material} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
