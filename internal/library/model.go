package library

import (
	"time"

	"gorm.io/datatypes"
)

// Analysis is a persisted record of a completed book analysis. The raw
// analyzer result is kept as JSON alongside the indexed columns so the
// full response can be replayed without re-fetching the book.
type Analysis struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	URL       string         `gorm:"uniqueIndex;size:512;not null" json:"url"`
	Title     string         `gorm:"size:512" json:"title"`
	Author    string         `gorm:"size:256" json:"author"`
	Language  string         `gorm:"size:64" json:"language"`
	Year      string         `gorm:"size:16" json:"year"`
	Summary   string         `json:"summary"`
	Genre     string         `gorm:"size:128" json:"genre"`
	Raw       datatypes.JSON `json:"raw,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
