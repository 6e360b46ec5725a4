package model

import "time"

// Record is a collection entry as stored and served by the collection
// service. List-valued fields are never nil once loaded from storage.
type Record struct {
	ID              string    `json:"id"`
	Name            *string   `json:"name"`
	ImageURL        string    `json:"image_url"`
	Category        string    `json:"category"`
	Style           []string  `json:"style"`
	OutfitType      []string  `json:"outfit_type"`
	Occasion        []string  `json:"occasion"`
	PrimaryColors   []string  `json:"primary_colors"`
	SecondaryColors []string  `json:"secondary_colors"`
	Material        *string   `json:"material"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordFilter narrows a record listing. Empty fields are ignored.
type RecordFilter struct {
	Category   string
	Occasion   string
	OutfitType string
	Color      string
	Search     string
}
