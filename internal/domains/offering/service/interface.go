package service

import (
	"context"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/offering/model"
)

type ServiceInterface interface {
	CreateOffering(ctx context.Context, req *model.CreateOfferingRequest) (*model.Offering, error)
	GetOfferingByID(ctx context.Context, id uuid.UUID) (*model.Offering, error)
	GetOfferingBySlug(ctx context.Context, slug string) (*model.Offering, error)
	ListOfferings(ctx context.Context, filter *model.ListOfferingsFilter) ([]*model.Offering, int, error)
	UpdateOffering(ctx context.Context, id uuid.UUID, req *model.UpdateOfferingRequest) (*model.Offering, error)
	DeleteOffering(ctx context.Context, id uuid.UUID) error
	AttachImages(ctx context.Context, id uuid.UUID, req *model.AttachImagesRequest) ([]*model.OfferingImage, error)
}

// ImageServiceInterface handles image ingestion and the async variant
// pipeline. ProcessImage and DeleteOfferingImages run in the worker.
type ImageServiceInterface interface {
	CreateImagesFromURLs(ctx context.Context, offeringID uuid.UUID, imageURLs []string) ([]*model.OfferingImage, error)
	ProcessImage(ctx context.Context, imageID string) error
	DeleteOfferingImages(ctx context.Context, offeringID string) error
}
