package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	offeringService "fitstudio-backend/internal/domains/offering/service"
	"fitstudio-backend/internal/shared"
)

// ProcessImageHandler resizes offering images into serving variants
type ProcessImageHandler struct {
	imageService offeringService.ImageServiceInterface
}

func NewProcessImageHandler(imageService offeringService.ImageServiceInterface) *ProcessImageHandler {
	return &ProcessImageHandler{imageService: imageService}
}

func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal process image payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("image_id", payload.ImageID).
		Msg("Processing offering image variants")

	if err := h.imageService.ProcessImage(ctx, payload.ImageID); err != nil {
		log.Error().
			Err(err).
			Str("image_id", payload.ImageID).
			Msg("Failed to process offering image")
		return fmt.Errorf("process image: %w", err)
	}

	return nil
}

// DeleteImagesHandler removes stored images after an offering is deleted
type DeleteImagesHandler struct {
	imageService offeringService.ImageServiceInterface
}

func NewDeleteImagesHandler(imageService offeringService.ImageServiceInterface) *DeleteImagesHandler {
	return &DeleteImagesHandler{imageService: imageService}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal delete images payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("offering_id", payload.OfferingID).
		Msg("Deleting offering images")

	if err := h.imageService.DeleteOfferingImages(ctx, payload.OfferingID); err != nil {
		log.Error().
			Err(err).
			Str("offering_id", payload.OfferingID).
			Msg("Failed to delete offering images")
		return fmt.Errorf("delete images: %w", err)
	}

	return nil
}
