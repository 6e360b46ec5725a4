package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erazemk/ornate/internal/model"
)

// WireRecord is the collaborator's field layout for one item.
type WireRecord struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"image_url"`
	Style           []string `json:"style,omitempty"`
	OutfitType      []string `json:"outfit_type"`
	Occasion        []string `json:"occasion"`
	PrimaryColors   []string `json:"primary_colors"`
	SecondaryColors []string `json:"secondary_colors,omitempty"`
	Material        *string  `json:"material"`
	Notes           *string  `json:"notes"`
	CreatedAt       WireTime `json:"created_at,omitzero"`
}

// ToWire converts a local record to its wire shape. The single local color
// becomes a one-element primary_colors array.
func ToWire(it model.JewelryItem) WireRecord {
	w := WireRecord{
		ID:            it.ID,
		Name:          it.Name,
		Category:      it.Category.String(),
		ImageURL:      it.ImageURL,
		OutfitType:    make([]string, 0, len(it.OutfitTypes)),
		Occasion:      append([]string{}, it.Occasion...),
		PrimaryColors: []string{},
		Material:      optional(it.Material),
		Notes:         optional(it.Description),
		CreatedAt:     WireTime{it.CreatedAt},
	}
	for _, o := range it.OutfitTypes {
		w.OutfitType = append(w.OutfitType, o.String())
	}
	if it.Color != "" {
		w.PrimaryColors = []string{it.Color}
	}
	return w
}

// FromWire converts a wire record to the local shape. Only the first primary
// color is kept; a missing name falls back to the category label. Unknown
// category or outfit type values are rejected.
func FromWire(w WireRecord) (model.JewelryItem, error) {
	category, err := model.ParseCategory(w.Category)
	if err != nil {
		return model.JewelryItem{}, fmt.Errorf("record %s: %w", w.ID, err)
	}
	outfits, err := model.ParseOutfitTypes(w.OutfitType)
	if err != nil {
		return model.JewelryItem{}, fmt.Errorf("record %s: %w", w.ID, err)
	}

	it := model.JewelryItem{
		ID:          w.ID,
		Name:        w.Name,
		Category:    category,
		ImageURL:    w.ImageURL,
		OutfitTypes: outfits,
		Occasion:    append([]string(nil), w.Occasion...),
		CreatedAt:   w.CreatedAt.Time,
	}
	if it.Name == "" {
		it.Name = category.String()
	}
	if len(w.PrimaryColors) > 0 {
		it.Color = w.PrimaryColors[0]
	}
	if w.Material != nil {
		it.Material = *w.Material
	}
	if w.Notes != nil {
		it.Description = *w.Notes
	}
	return it, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// WireTime decodes RFC 3339 timestamps as well as the zone-less ISO form
// some collaborators emit, which is read as UTC.
type WireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t WireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *WireTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("created_at: unrecognized timestamp %q", s)
}
