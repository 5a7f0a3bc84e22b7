package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/offering/model"
	"fitstudio-backend/internal/domains/offering/repository"
	"fitstudio-backend/internal/infrastructure/storage"
	"fitstudio-backend/pkg/logger"
)

type imageService struct {
	repo      repository.ImageRepository
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
}

func NewImageService(repo repository.ImageRepository, st *storage.MinIOStorage, processor *storage.ImageProcessor) ImageServiceInterface {
	return &imageService{
		repo:      repo,
		storage:   st,
		processor: processor,
	}
}

// CreateImagesFromURLs downloads each source URL, stores the original in
// object storage and records the image as processing. A bad URL skips
// that image rather than failing the whole batch.
func (s *imageService) CreateImagesFromURLs(ctx context.Context, offeringID uuid.UUID, imageURLs []string) ([]*model.OfferingImage, error) {
	images := make([]*model.OfferingImage, 0, len(imageURLs))

	for i, imgURL := range imageURLs {
		data, format, err := s.downloadAndValidateImage(imgURL)
		if err != nil {
			logger.Info("skipping unusable image", map[string]interface{}{
				"url":   imgURL,
				"error": err.Error(),
			})
			continue
		}

		imageID := uuid.New()
		key := fmt.Sprintf("offerings/%s/%s_original.%s", offeringID, imageID, format)
		originalURL, err := s.storage.Upload(ctx, key, data, fmt.Sprintf("image/%s", format))
		if err != nil {
			logger.Error("upload original image", err)
			continue
		}

		now := time.Now()
		img := &model.OfferingImage{
			ID:          imageID,
			OfferingID:  offeringID,
			OriginalURL: originalURL,
			SortOrder:   i,
			IsCover:     i == 0,
			Status:      model.ImageStatusProcessing,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.repo.Create(ctx, img); err != nil {
			logger.Error("create image record", err)
			continue
		}

		images = append(images, img)
	}

	return images, nil
}

// ProcessImage generates the resized variants for one image. Runs in
// the worker.
//
// Flow:
//
//	Step 1: load the record and download the original
//	Step 2: resize into large/medium/thumbnail
//	Step 3: upload variants and mark the record ready
//
// Failures are written back to the record so the admin UI can show why
// an image never left processing.
func (s *imageService) ProcessImage(ctx context.Context, imageID string) error {
	id, err := uuid.Parse(imageID)
	if err != nil {
		return fmt.Errorf("parse image id: %w", err)
	}

	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load image record: %w", err)
	}

	key := extractKeyFromURL(img.OriginalURL)
	original, err := s.storage.Download(ctx, key)
	if err != nil {
		s.repo.UpdateStatus(ctx, id, model.ImageStatusFailed, err.Error())
		return fmt.Errorf("download original: %w", err)
	}

	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		s.repo.UpdateStatus(ctx, id, model.ImageStatusFailed, err.Error())
		return fmt.Errorf("resize image: %w", err)
	}

	baseKey := fmt.Sprintf("offerings/%s/%s", img.OfferingID, img.ID)
	variantURLs := make(map[string]string, len(variants))
	for name, data := range variants {
		variantKey := fmt.Sprintf("%s_%s.jpg", baseKey, name)
		url, err := s.storage.Upload(ctx, variantKey, data, "image/jpeg")
		if err != nil {
			s.repo.UpdateStatus(ctx, id, model.ImageStatusFailed, err.Error())
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		variantURLs[name] = url
	}

	if err := s.repo.UpdateVariants(ctx, id, variantURLs["large"], variantURLs["medium"], variantURLs["thumbnail"]); err != nil {
		return fmt.Errorf("record variants: %w", err)
	}

	logger.Info("offering image processed", map[string]interface{}{
		"image_id":    img.ID,
		"offering_id": img.OfferingID,
	})

	return nil
}

// DeleteOfferingImages removes every stored object and record for an
// offering. Runs in the worker after the offering row is gone.
func (s *imageService) DeleteOfferingImages(ctx context.Context, offeringID string) error {
	id, err := uuid.Parse(offeringID)
	if err != nil {
		return fmt.Errorf("parse offering id: %w", err)
	}

	prefix := fmt.Sprintf("offerings/%s/", offeringID)
	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Error("delete offering objects", err)
	}

	return s.repo.DeleteByOffering(ctx, id)
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *imageService) downloadAndValidateImage(imgURL string) ([]byte, string, error) {
	resp, err := http.Get(imgURL)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, "", err
	}

	format := "jpg"
	if resp.Header.Get("Content-Type") == "image/png" {
		format = "png"
	}

	return data, format, nil
}

// extractKeyFromURL strips scheme, host and bucket from a stored object
// URL, leaving the key used by the storage API.
func extractKeyFromURL(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return ""
	}

	path := strings.TrimPrefix(u.Path, "/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return path
	}

	return parts[1]
}
