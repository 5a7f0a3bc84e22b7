package service

import (
	"context"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/discount/model"
)

type ServiceInterface interface {
	// POS methods
	Evaluate(ctx context.Context, req *model.EligibilityRequest) (*model.EligibilityResult, error)
	Redeem(ctx context.Context, req *model.RedeemRequest, processedBy uuid.UUID, processedByName string) (*model.RedeemOutcome, error)

	// Admin methods
	CreateDiscount(ctx context.Context, req *model.CreateDiscountRequest, createdBy uuid.UUID) (*model.DiscountResponse, error)
	GetDiscountByID(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error)
	ListDiscounts(ctx context.Context, filter *model.ListDiscountsFilter) ([]*model.DiscountResponse, int, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.DiscountResponse, error)
	SetDiscountEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*model.DiscountResponse, error)
	DeleteDiscount(ctx context.Context, id uuid.UUID) (*model.DeleteOutcome, error)
	ListRedemptions(ctx context.Context, discountID uuid.UUID, page, limit int) ([]*model.Redemption, int, error)
	GetStats(ctx context.Context) (*model.Stats, error)
}

// ReportServiceInterface builds and stores redemption reports.
type ReportServiceInterface interface {
	ExportRedemptions(ctx context.Context) (string, error)
}
