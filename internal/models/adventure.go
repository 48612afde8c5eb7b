package models

import (
	"time"

	"github.com/google/uuid"
)

// Adventure is a bookable trek/adventure listing. Read-only from this
// service's perspective.
type Adventure struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	Duration     string    `json:"duration"`
	Price        int       `json:"price"`
	Images       []string  `json:"images"`
	Rating       float64   `json:"rating"`
	Distance     float64   `json:"distance"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Category     string    `json:"category"`
	MaxGroupSize int       `json:"max_group_size"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdventureMarker is the projection the map widget plots. Selection happens
// by id against this list; no page-global callback is involved.
type AdventureMarker struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Price     int       `json:"price"`
	Rating    float64   `json:"rating"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// AdventureFilter narrows the listing query.
type AdventureFilter struct {
	Category   string
	Difficulty string
	Search     string
	MinPrice   int
	MaxPrice   int
	Limit      int
	Offset     int
}
