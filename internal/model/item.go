package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// PlaceholderImageURL is used when an item is created without an image.
const PlaceholderImageURL = "https://via.placeholder.com/300"

// JewelryItem is a single catalogued piece in the local record shape.
type JewelryItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    Category     `json:"category"`
	ImageURL    string       `json:"imageUrl"`
	Description string       `json:"description,omitempty"`
	OutfitTypes []OutfitType `json:"outfitTypes"`
	Color       string       `json:"color,omitempty"`
	Material    string       `json:"material,omitempty"`
	Occasion    []string     `json:"occasion,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// HasOutfitType reports whether the item is tagged with the given outfit type.
func (it *JewelryItem) HasOutfitType(o OutfitType) bool {
	return slices.Contains(it.OutfitTypes, o)
}

// Clone returns a deep copy of the item.
func (it JewelryItem) Clone() JewelryItem {
	it.OutfitTypes = slices.Clone(it.OutfitTypes)
	it.Occasion = slices.Clone(it.Occasion)
	return it
}

// Validate checks the structural rules a record must satisfy before it is
// submitted for creation or edit.
func (it *JewelryItem) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidRecord)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("%w: invalid category", ErrInvalidRecord)
	}
	if len(it.OutfitTypes) == 0 {
		return fmt.Errorf("%w: at least one outfit type required", ErrInvalidRecord)
	}
	for _, o := range it.OutfitTypes {
		if !o.Valid() {
			return fmt.Errorf("%w: invalid outfit type", ErrInvalidRecord)
		}
	}
	return nil
}

// ParseOccasion splits comma-separated input into trimmed, non-empty labels.
func ParseOccasion(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SearchFilters holds the optional search constraints. A zero field places
// no constraint on that dimension.
type SearchFilters struct {
	Category    Category   `json:"category,omitempty"`
	OutfitType  OutfitType `json:"outfitType,omitempty"`
	SearchQuery string     `json:"searchQuery,omitempty"`
}

// IsZero reports whether no constraint is set.
func (f SearchFilters) IsZero() bool {
	return f.Category == 0 && f.OutfitType == 0 && f.SearchQuery == ""
}
