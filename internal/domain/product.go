package domain

import (
	"strings"
	"time"
)

// Gender selects the reference model and narration voice for a product.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderUnisex Gender = "unisex"
)

// NormalizeGender sanitizes free-form input into a supported gender.
// Unknown values default to female, matching the registration form.
func NormalizeGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(GenderMale):
		return GenderMale
	case string(GenderUnisex):
		return GenderUnisex
	default:
		return GenderFemale
	}
}

// MediaStatus enumerates the lifecycle of a product's generated media.
type MediaStatus string

const (
	MediaStatusPending    MediaStatus = "pending"
	MediaStatusGenerating MediaStatus = "generating"
	MediaStatusCompleted  MediaStatus = "completed"
	MediaStatusFailed     MediaStatus = "failed"
)

// Terminal reports whether the status is final for the pipeline.
func (s MediaStatus) Terminal() bool {
	return s == MediaStatusCompleted || s == MediaStatusFailed
}

// ColorStock is one color line of the stock sheet.
type ColorStock struct {
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// SizeStock is one size line of the stock sheet.
type SizeStock struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Product is an apparel item registered through the admin surface. The
// media fields are written exclusively by the generation pipeline.
type Product struct {
	ID            string
	Name          string
	ImageSource   string // data URL or remote URL of the uploaded shot
	Fabric        string
	Gender        Gender
	Category      string
	NarrationText string
	NarrationLang string
	Colors        []ColorStock
	Sizes         []SizeStock
	VideoURL      *string
	AudioDataURL  *string
	MediaStatus   MediaStatus
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Trashed reports whether the product sits in the soft-delete trash.
func (p *Product) Trashed() bool {
	return p != nil && p.DeletedAt != nil
}
