package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fitstudio-backend/internal/domains/offering/model"
	"fitstudio-backend/internal/domains/offering/repository"
	"fitstudio-backend/internal/infrastructure/queue"
	"fitstudio-backend/internal/shared/utils"
	"fitstudio-backend/pkg/cache"
	"fitstudio-backend/pkg/logger"
)

const (
	listCachePrefix = "offerings:list:"
	listCacheTTL    = 5 * time.Minute
)

type offeringService struct {
	repo      repository.OfferingRepository
	imageRepo repository.ImageRepository
	images    ImageServiceInterface
	cache     cache.Cache
	queue     *queue.Client
}

func NewService(
	repo repository.OfferingRepository,
	imageRepo repository.ImageRepository,
	images ImageServiceInterface,
	c cache.Cache,
	q *queue.Client,
) ServiceInterface {
	return &offeringService{
		repo:      repo,
		imageRepo: imageRepo,
		images:    images,
		cache:     c,
		queue:     q,
	}
}

func (s *offeringService) CreateOffering(ctx context.Context, req *model.CreateOfferingRequest) (*model.Offering, error) {
	slug, err := s.uniqueSlug(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o := &model.Offering{
		ID:              uuid.New(),
		Name:            req.Name,
		Slug:            slug,
		Type:            model.OfferingType(req.Type),
		Description:     req.Description,
		Price:           decimal.NewFromFloat(req.Price),
		DurationMinutes: req.DurationMinutes,
		Capacity:        req.Capacity,
		Sessions:        req.Sessions,
		IsActive:        req.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.TrainerID != nil {
		trainerID, err := uuid.Parse(*req.TrainerID)
		if err != nil {
			return nil, fmt.Errorf("parse trainer id: %w", err)
		}
		o.TrainerID = &trainerID
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if len(req.ImageURLs) > 0 {
		images, err := s.images.CreateImagesFromURLs(ctx, o.ID, req.ImageURLs)
		if err != nil {
			logger.Error("ingest offering images", err)
		}
		o.Images = images
		s.enqueueProcessing(images)
	}

	s.invalidateListCache(ctx)

	logger.Info("offering created", map[string]interface{}{
		"offering_id": o.ID,
		"slug":        o.Slug,
		"type":        o.Type,
	})

	return o, nil
}

func (s *offeringService) GetOfferingByID(ctx context.Context, id uuid.UUID) (*model.Offering, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, o)
}

func (s *offeringService) GetOfferingBySlug(ctx context.Context, slug string) (*model.Offering, error) {
	o, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, o)
}

type cachedList struct {
	Offerings []*model.Offering `json:"offerings"`
	Total     int               `json:"total"`
}

func (s *offeringService) ListOfferings(ctx context.Context, filter *model.ListOfferingsFilter) ([]*model.Offering, int, error) {
	filter.SetDefaults()

	key := fmt.Sprintf("%s%s:%v:%s:%d:%d",
		listCachePrefix, filter.Type, filter.IsActive, filter.Search, filter.Page, filter.Limit)

	if s.cache != nil {
		var cached cachedList
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Error("read offerings cache", err)
		} else if found {
			return cached.Offerings, cached.Total, nil
		}
	}

	offerings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedList{Offerings: offerings, Total: total}, listCacheTTL); err != nil {
			logger.Error("write offerings cache", err)
		}
	}

	return offerings, total, nil
}

func (s *offeringService) UpdateOffering(ctx context.Context, id uuid.UUID, req *model.UpdateOfferingRequest) (*model.Offering, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != o.Name {
		slug, err := s.uniqueSlug(ctx, *req.Name, &id)
		if err != nil {
			return nil, err
		}
		o.Name = *req.Name
		o.Slug = slug
	}
	if req.Description != nil {
		o.Description = req.Description
	}
	if req.Price != nil {
		o.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.DurationMinutes != nil {
		o.DurationMinutes = req.DurationMinutes
	}
	if req.Capacity != nil {
		o.Capacity = req.Capacity
	}
	if req.Sessions != nil {
		o.Sessions = req.Sessions
	}
	if req.TrainerID != nil {
		trainerID, err := uuid.Parse(*req.TrainerID)
		if err != nil {
			return nil, fmt.Errorf("parse trainer id: %w", err)
		}
		o.TrainerID = &trainerID
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}

	o.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	return s.withImages(ctx, o)
}

func (s *offeringService) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Object storage cleanup is slow, hand it to the worker
	if s.queue != nil {
		if err := s.queue.EnqueueDeleteImages(id.String()); err != nil {
			logger.Error("enqueue image cleanup", err)
		}
	}

	s.invalidateListCache(ctx)

	logger.Info("offering deleted", map[string]interface{}{"offering_id": id})

	return nil
}

func (s *offeringService) AttachImages(ctx context.Context, id uuid.UUID, req *model.AttachImagesRequest) ([]*model.OfferingImage, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	images, err := s.images.CreateImagesFromURLs(ctx, id, req.ImageURLs)
	if err != nil {
		return nil, err
	}
	s.enqueueProcessing(images)

	return images, nil
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *offeringService) withImages(ctx context.Context, o *model.Offering) (*model.Offering, error) {
	images, err := s.imageRepo.ListByOffering(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Images = images
	return o, nil
}

// uniqueSlug derives a slug from the name and suffixes a counter until
// it is free.
func (s *offeringService) uniqueSlug(ctx context.Context, name string, excludeID *uuid.UUID) (string, error) {
	base := utils.GenerateSlug(name)
	slug := base

	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *offeringService) enqueueProcessing(images []*model.OfferingImage) {
	if s.queue == nil {
		return
	}
	for _, img := range images {
		if err := s.queue.EnqueueProcessImage(img.ID.String()); err != nil {
			logger.Error("enqueue image processing", err)
		}
	}
}

func (s *offeringService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		logger.Error("invalidate offerings cache", err)
	}
}
