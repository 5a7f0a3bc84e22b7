package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateOfferingRequest adds a new product to the catalog
type CreateOfferingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description,omitempty"`

	Price           float64 `json:"price" binding:"required"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Capacity        *int    `json:"capacity,omitempty"`
	Sessions        *int    `json:"sessions,omitempty"`

	TrainerID *string `json:"trainer_id,omitempty"`
	IsActive  bool    `json:"is_active"`

	// External URLs to pull images from; variants are generated async
	ImageURLs []string `json:"image_urls,omitempty"`
}

func (r CreateOfferingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Type,
			validation.Required,
			validation.In(string(OfferingTypeClass), string(OfferingTypeWorkshop), string(OfferingTypePackage)),
		),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.DurationMinutes,
			validation.When(r.DurationMinutes != nil, validation.Min(5), validation.Max(600)),
		),
		validation.Field(&r.Capacity,
			validation.When(r.Capacity != nil, validation.Min(1)),
		),
		validation.Field(&r.Sessions,
			validation.When(r.Type == string(OfferingTypePackage),
				validation.Required.Error("sessions is required for packages"),
				validation.Min(1),
			),
		),
		validation.Field(&r.TrainerID,
			validation.When(r.TrainerID != nil, is.UUID),
		),
		validation.Field(&r.ImageURLs,
			validation.Each(is.URL),
		),
	)
}

// UpdateOfferingRequest is a partial update; nil fields are left alone
type UpdateOfferingRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Capacity        *int     `json:"capacity,omitempty"`
	Sessions        *int     `json:"sessions,omitempty"`

	TrainerID *string `json:"trainer_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r UpdateOfferingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(2, 200)),
		),
		validation.Field(&r.Price,
			validation.When(r.Price != nil, validation.Min(0.0)),
		),
		validation.Field(&r.DurationMinutes,
			validation.When(r.DurationMinutes != nil, validation.Min(5), validation.Max(600)),
		),
		validation.Field(&r.Capacity,
			validation.When(r.Capacity != nil, validation.Min(1)),
		),
		validation.Field(&r.Sessions,
			validation.When(r.Sessions != nil, validation.Min(1)),
		),
		validation.Field(&r.TrainerID,
			validation.When(r.TrainerID != nil, is.UUID),
		),
	)
}

// ListOfferingsFilter filters the catalog list view
type ListOfferingsFilter struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (f *ListOfferingsFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f ListOfferingsFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type,
			validation.In("",
				string(OfferingTypeClass),
				string(OfferingTypeWorkshop),
				string(OfferingTypePackage),
			),
		),
	)
}

// AttachImagesRequest adds images to an existing offering
type AttachImagesRequest struct {
	ImageURLs []string `json:"image_urls" binding:"required"`
}

func (r AttachImagesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ImageURLs,
			validation.Required,
			validation.Length(1, 10),
			validation.Each(is.URL),
		),
	)
}
