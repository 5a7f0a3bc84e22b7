package repository

import (
	"context"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/offering/model"
)

type OfferingRepository interface {
	Create(ctx context.Context, o *model.Offering) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Offering, error)
	FindBySlug(ctx context.Context, slug string) (*model.Offering, error)
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, filter *model.ListOfferingsFilter) ([]*model.Offering, int, error)
	Update(ctx context.Context, o *model.Offering) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ImageRepository interface {
	Create(ctx context.Context, img *model.OfferingImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OfferingImage, error)
	ListByOffering(ctx context.Context, offeringID uuid.UUID) ([]*model.OfferingImage, error)
	UpdateVariants(ctx context.Context, id uuid.UUID, largeURL, mediumURL, thumbnailURL string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ImageStatus, lastError string) error
	DeleteByOffering(ctx context.Context, offeringID uuid.UUID) error
}
