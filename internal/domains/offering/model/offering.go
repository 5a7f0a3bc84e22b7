package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferingType represents what kind of product the studio sells
type OfferingType string

const (
	OfferingTypeClass    OfferingType = "class"
	OfferingTypeWorkshop OfferingType = "workshop"
	OfferingTypePackage  OfferingType = "package"
)

func (t OfferingType) IsValid() bool {
	switch t {
	case OfferingTypeClass, OfferingTypeWorkshop, OfferingTypePackage:
		return true
	}
	return false
}

// Offering is a sellable studio product: a class, a workshop or a
// multi-session package.
type Offering struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Slug        string       `json:"slug" db:"slug"`
	Type        OfferingType `json:"type" db:"type"`
	Description *string      `json:"description,omitempty" db:"description"`

	Price           decimal.Decimal `json:"price" db:"price"`
	DurationMinutes *int            `json:"duration_minutes,omitempty" db:"duration_minutes"`
	Capacity        *int            `json:"capacity,omitempty" db:"capacity"`

	// Sessions is only set for packages (number of visits included)
	Sessions *int `json:"sessions,omitempty" db:"sessions"`

	TrainerID *uuid.UUID `json:"trainer_id,omitempty" db:"trainer_id"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Images []*OfferingImage `json:"images,omitempty" db:"-"`
}

// ImageStatus tracks the background processing state of an image
type ImageStatus string

const (
	ImageStatusProcessing ImageStatus = "processing"
	ImageStatusReady      ImageStatus = "ready"
	ImageStatusFailed     ImageStatus = "failed"
)

// OfferingImage holds one uploaded image and its resized variants.
// Variants are produced asynchronously by the worker; until then only
// OriginalURL is set and Status is processing.
type OfferingImage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OfferingID uuid.UUID `json:"offering_id" db:"offering_id"`

	OriginalURL  string  `json:"original_url" db:"original_url"`
	LargeURL     *string `json:"large_url,omitempty" db:"large_url"`
	MediumURL    *string `json:"medium_url,omitempty" db:"medium_url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty" db:"thumbnail_url"`

	SortOrder int         `json:"sort_order" db:"sort_order"`
	IsCover   bool        `json:"is_cover" db:"is_cover"`
	Status    ImageStatus `json:"status" db:"status"`
	LastError *string     `json:"last_error,omitempty" db:"last_error"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
