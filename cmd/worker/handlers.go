package main

import (
	"github.com/hibiken/asynq"

	discountJob "fitstudio-backend/internal/domains/discount/job"
	offeringJob "fitstudio-backend/internal/domains/offering/job"
	"fitstudio-backend/internal/shared"
	"fitstudio-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processImage *offeringJob.ProcessImageHandler
	deleteImages *offeringJob.DeleteImagesHandler
	exportReport *discountJob.ExportReportHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processImage: offeringJob.NewProcessImageHandler(c.OfferingImageService),
		deleteImages: offeringJob.NewDeleteImagesHandler(c.OfferingImageService),
		exportReport: discountJob.NewExportReportHandler(c.DiscountReportService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessOfferingImage, h.processImage.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteOfferingImages, h.deleteImages.ProcessTask)
	mux.HandleFunc(shared.TypeExportRedemptionReport, h.exportReport.ProcessTask)
}
