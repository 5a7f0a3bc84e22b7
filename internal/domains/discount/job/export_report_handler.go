package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	discountService "fitstudio-backend/internal/domains/discount/service"
)

// ExportReportHandler builds the nightly redemption report. The task
// carries no payload; the report always covers the full ledger.
type ExportReportHandler struct {
	reportService discountService.ReportServiceInterface
}

func NewExportReportHandler(reportService discountService.ReportServiceInterface) *ExportReportHandler {
	return &ExportReportHandler{reportService: reportService}
}

func (h *ExportReportHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	log.Info().Msg("Exporting redemption report")

	url, err := h.reportService.ExportRedemptions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to export redemption report")
		return err
	}

	log.Info().Str("report_url", url).Msg("Redemption report exported")
	return nil
}
