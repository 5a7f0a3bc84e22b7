package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"fitstudio-backend/internal/domains/discount/model"
	"fitstudio-backend/internal/domains/discount/repository"
	"fitstudio-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportUploader stores a generated report and returns its URL.
// Satisfied by storage.MinIOStorage.
type ReportUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type reportService struct {
	catalog repository.CatalogStore
	ledger  repository.LedgerStore
	storage ReportUploader
	now     Clock
}

func NewReportService(catalog repository.CatalogStore, ledger repository.LedgerStore, storage ReportUploader, clock Clock) ReportServiceInterface {
	if clock == nil {
		clock = time.Now
	}
	return &reportService{
		catalog: catalog,
		ledger:  ledger,
		storage: storage,
		now:     clock,
	}
}

// ExportRedemptions builds an xlsx workbook with every ledger entry plus
// a summary sheet and uploads it to object storage. Returns the report URL.
// Called from the admin export endpoint and from the nightly worker job.
func (s *reportService) ExportRedemptions(ctx context.Context) (string, error) {
	defs, err := s.catalog.ListAll(ctx)
	if err != nil {
		return "", err
	}
	recs, err := s.ledger.ListAll(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	data, err := buildRedemptionWorkbook(defs, recs, now)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/discounts/redemptions_%s.xlsx", now.Format("2006-01-02"))
	url, err := s.storage.Upload(ctx, key, data, xlsxContentType)
	if err != nil {
		return "", fmt.Errorf("upload redemption report: %w", err)
	}

	logger.Info("redemption report exported", map[string]interface{}{
		"key":   key,
		"rows":  len(recs),
		"codes": len(defs),
	})

	return url, nil
}

func buildRedemptionWorkbook(defs []*model.Discount, recs []*model.Redemption, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet 1: the raw ledger
	const ledgerSheet = "Redemptions"
	f.SetSheetName("Sheet1", ledgerSheet)

	headers := []string{
		"Used At", "Code", "Item", "Item Type",
		"Member", "Member Email",
		"Original", "Discount", "Final",
		"Processed By",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ledgerSheet, cell, h)
	}

	for row, rec := range recs {
		member := "walk-in"
		if rec.UserName != nil {
			member = *rec.UserName
		}
		email := ""
		if rec.UserEmail != nil {
			email = *rec.UserEmail
		}

		values := []interface{}{
			rec.UsedAt.Format(time.RFC3339),
			rec.Code,
			rec.ItemName,
			string(rec.ItemType),
			member,
			email,
			rec.OriginalAmount.InexactFloat64(),
			rec.DiscountAmount.InexactFloat64(),
			rec.FinalAmount.InexactFloat64(),
			rec.ProcessedByName,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(ledgerSheet, cell, v)
		}
	}

	// Sheet 2: aggregate summary
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	stats := Summarize(defs, recs, now)
	summary := [][]interface{}{
		{"Generated At", now.Format(time.RFC3339)},
		{"Total Definitions", stats.TotalDefinitions},
		{"Active", stats.CountsByStatus[model.StatusActive]},
		{"Not Yet Started", stats.CountsByStatus[model.StatusNotYetStarted]},
		{"Expired", stats.CountsByStatus[model.StatusExpired]},
		{"Used Up", stats.CountsByStatus[model.StatusUsedUp]},
		{"Disabled", stats.CountsByStatus[model.StatusDisabled]},
		{"Total Redemptions", stats.TotalRedemptions},
		{"Total Discount Granted", stats.TotalDiscountGranted.InexactFloat64()},
	}
	if stats.MostRedeemed != nil {
		summary = append(summary,
			[]interface{}{"Most Redeemed Code", stats.MostRedeemed.Code},
			[]interface{}{"Most Redeemed Count", stats.MostRedeemed.Count},
		)
	}
	for row, pair := range summary {
		for col, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			f.SetCellValue(summarySheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}
