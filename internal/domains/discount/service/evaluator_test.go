package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitstudio-backend/internal/domains/discount/model"
)

var evalNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func activeDiscount(kind model.DiscountKind, value string) *model.Discount {
	return &model.Discount{
		ID:        uuid.New(),
		Code:      "SAVE20",
		Name:      "Summer promo",
		Kind:      kind,
		Value:     decimal.RequireFromString(value),
		ValidFrom: evalNow.Add(-24 * time.Hour),
		Scope:     model.ScopeAllItems,
		Enabled:   true,
	}
}

func evalRequest(amount string) *model.EligibilityRequest {
	return &model.EligibilityRequest{
		Code:           "SAVE20",
		ItemType:       string(model.ItemTypeClass),
		ItemID:         uuid.New(),
		PurchaseAmount: decimal.RequireFromString(amount),
	}
}

func TestEvaluateDiscount_Amounts(t *testing.T) {
	tests := []struct {
		name         string
		kind         model.DiscountKind
		value        string
		purchase     string
		wantDiscount string
		wantFinal    string
	}{
		{"20 percent of 49.99 rounds half up", model.DiscountKindPercentage, "20", "49.99", "10", "39.99"},
		{"10 percent of 100", model.DiscountKindPercentage, "10", "100", "10", "90"},
		{"15 percent of 33.33", model.DiscountKindPercentage, "15", "33.33", "5", "28.33"},
		{"100 percent zeroes the price", model.DiscountKindPercentage, "100", "80", "80", "0"},
		{"fixed amount under purchase", model.DiscountKindFixedAmount, "5", "49.99", "5", "44.99"},
		{"fixed amount clamps to purchase", model.DiscountKindFixedAmount, "50", "30", "30", "0"},
		{"fixed amount on zero purchase", model.DiscountKindFixedAmount, "5", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := activeDiscount(tt.kind, tt.value)
			result := EvaluateDiscount(d, evalRequest(tt.purchase), 0, evalNow)

			require.True(t, result.Eligible, "reason: %s", result.Reason)
			assert.True(t, result.DiscountAmount.Equal(decimal.RequireFromString(tt.wantDiscount)),
				"discount = %s, want %s", result.DiscountAmount, tt.wantDiscount)
			assert.True(t, result.FinalAmount.Equal(decimal.RequireFromString(tt.wantFinal)),
				"final = %s, want %s", result.FinalAmount, tt.wantFinal)
			assert.True(t, result.OriginalAmount.Equal(result.DiscountAmount.Add(result.FinalAmount)),
				"amounts must sum back to the original")
		})
	}
}

func TestEvaluateDiscount_Rejections(t *testing.T) {
	memberID := uuid.New()

	tests := []struct {
		name      string
		setup     func(*model.Discount)
		request   func(*model.EligibilityRequest)
		priorUses int
		want      model.RejectionReason
	}{
		{
			name:  "disabled",
			setup: func(d *model.Discount) { d.Enabled = false },
			want:  model.ReasonCodeDisabled,
		},
		{
			name:  "not yet active",
			setup: func(d *model.Discount) { d.ValidFrom = evalNow.Add(time.Hour) },
			want:  model.ReasonNotYetActive,
		},
		{
			name:  "expired",
			setup: func(d *model.Discount) { d.ValidUntil = timePtr(evalNow.Add(-time.Minute)) },
			want:  model.ReasonExpired,
		},
		{
			name: "global limit reached",
			setup: func(d *model.Discount) {
				d.MaxTotalUses = intPtr(100)
				d.CurrentUses = 100
			},
			want: model.ReasonGlobalLimitReached,
		},
		{
			name:      "per user limit reached",
			setup:     func(d *model.Discount) { d.MaxUsesPerUser = intPtr(1) },
			request:   func(r *model.EligibilityRequest) { r.UserID = &memberID },
			priorUses: 1,
			want:      model.ReasonPerUserLimit,
		},
		{
			name:  "below minimum purchase",
			setup: func(d *model.Discount) { d.MinPurchaseAmount = decPtr("50") },
			want:  model.ReasonBelowMinimum,
		},
		{
			name:    "out of scope",
			setup:   func(d *model.Discount) { d.Scope = model.ScopePackagesOnly },
			request: func(r *model.EligibilityRequest) { r.ItemType = string(model.ItemTypeClass) },
			want:    model.ReasonOutOfScope,
		},
		{
			name: "disabled reported before below minimum",
			setup: func(d *model.Discount) {
				d.Enabled = false
				d.MinPurchaseAmount = decPtr("500")
			},
			want: model.ReasonCodeDisabled,
		},
		{
			name: "expired reported before out of scope",
			setup: func(d *model.Discount) {
				d.ValidUntil = timePtr(evalNow.Add(-time.Minute))
				d.Scope = model.ScopePackagesOnly
			},
			want: model.ReasonExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := activeDiscount(model.DiscountKindPercentage, "20")
			tt.setup(d)
			req := evalRequest("49.99")
			if tt.request != nil {
				tt.request(req)
			}

			result := EvaluateDiscount(d, req, tt.priorUses, evalNow)

			require.False(t, result.Eligible)
			assert.Equal(t, tt.want, result.Reason)
			assert.NotEmpty(t, result.Message)
			assert.True(t, result.DiscountAmount.IsZero())
			assert.True(t, result.FinalAmount.Equal(req.PurchaseAmount))
		})
	}
}

func TestEvaluateDiscount_MinimumBoundary(t *testing.T) {
	d := activeDiscount(model.DiscountKindPercentage, "10")
	d.MinPurchaseAmount = decPtr("50")

	t.Run("exactly the minimum passes", func(t *testing.T) {
		result := EvaluateDiscount(d, evalRequest("50"), 0, evalNow)
		assert.True(t, result.Eligible)
	})

	t.Run("one cent short fails", func(t *testing.T) {
		result := EvaluateDiscount(d, evalRequest("49.99"), 0, evalNow)
		assert.False(t, result.Eligible)
		assert.Equal(t, model.ReasonBelowMinimum, result.Reason)
	})
}

func TestEvaluateDiscount_PerUserLimit(t *testing.T) {
	memberID := uuid.New()

	d := activeDiscount(model.DiscountKindPercentage, "10")
	d.MaxUsesPerUser = intPtr(2)

	t.Run("under the cap passes", func(t *testing.T) {
		req := evalRequest("100")
		req.UserID = &memberID
		result := EvaluateDiscount(d, req, 1, evalNow)
		assert.True(t, result.Eligible)
	})

	t.Run("at the cap fails", func(t *testing.T) {
		req := evalRequest("100")
		req.UserID = &memberID
		result := EvaluateDiscount(d, req, 2, evalNow)
		assert.False(t, result.Eligible)
		assert.Equal(t, model.ReasonPerUserLimit, result.Reason)
	})

	t.Run("walk-in is never limited per user", func(t *testing.T) {
		req := evalRequest("100")
		result := EvaluateDiscount(d, req, 99, evalNow)
		assert.True(t, result.Eligible)
	})
}

func TestEvaluateDiscount_ClassScopeCoversWorkshops(t *testing.T) {
	d := activeDiscount(model.DiscountKindFixedAmount, "5")
	d.Code = "CLASS5"
	d.Scope = model.ScopeClassesOnly

	req := evalRequest("40")
	req.Code = "CLASS5"
	req.ItemType = string(model.ItemTypeWorkshop)

	result := EvaluateDiscount(d, req, 0, evalNow)

	require.True(t, result.Eligible)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, result.FinalAmount.Equal(decimal.NewFromInt(35)))
}
