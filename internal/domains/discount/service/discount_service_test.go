package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitstudio-backend/internal/domains/discount/model"
)

func newTestService(t *testing.T) (ServiceInterface, *memCatalog, *memLedger) {
	t.Helper()
	catalog := newMemCatalog()
	ledger := newMemLedger(catalog)
	svc := NewService(catalog, ledger, nil, func() time.Time { return evalNow })
	return svc, catalog, ledger
}

func createRequest(code string) *model.CreateDiscountRequest {
	return &model.CreateDiscountRequest{
		Code:      code,
		Name:      "Test promo",
		Kind:      string(model.DiscountKindPercentage),
		Value:     20,
		ValidFrom: evalNow.Add(-time.Hour).Format(time.RFC3339),
		Scope:     string(model.ScopeAllItems),
		Enabled:   true,
	}
}

func TestCreateDiscount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	t.Run("stores normalized code", func(t *testing.T) {
		resp, err := svc.CreateDiscount(ctx, createRequest("save20"), staffID)
		require.NoError(t, err)
		assert.Equal(t, "SAVE20", resp.Code)
		assert.Equal(t, model.StatusActive, resp.Status)
		assert.Equal(t, 0, resp.CurrentUses)
	})

	t.Run("rejects duplicate regardless of case", func(t *testing.T) {
		_, err := svc.CreateDiscount(ctx, createRequest("SAVE20"), staffID)
		assert.ErrorIs(t, err, model.ErrDuplicateCode)

		_, err = svc.CreateDiscount(ctx, createRequest("Save20"), staffID)
		assert.ErrorIs(t, err, model.ErrDuplicateCode)
	})

	t.Run("rejects inverted validity window", func(t *testing.T) {
		req := createRequest("WINDOW")
		until := evalNow.Add(-2 * time.Hour).Format(time.RFC3339)
		req.ValidUntil = &until
		_, err := svc.CreateDiscount(ctx, req, staffID)
		assert.ErrorIs(t, err, model.ErrInvalidDateRange)
	})
}

func TestUpdateDiscount(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	resp, err := svc.CreateDiscount(ctx, createRequest("UPDATEME"), staffID)
	require.NoError(t, err)
	id := resp.ID

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		name := "Renamed promo"
		updated, err := svc.UpdateDiscount(ctx, id, &model.UpdateDiscountRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed promo", updated.Name)
		assert.Equal(t, "UPDATEME", updated.Code)
	})

	t.Run("cap cannot drop below spent uses", func(t *testing.T) {
		ledger.CommitRedemption(ctx, &model.Redemption{
			ID:         uuid.New(),
			DiscountID: id,
			Code:       "UPDATEME",
			ItemType:   model.ItemTypeClass,
			ItemID:     uuid.New(),
		})
		ledger.CommitRedemption(ctx, &model.Redemption{
			ID:         uuid.New(),
			DiscountID: id,
			Code:       "UPDATEME",
			ItemType:   model.ItemTypeClass,
			ItemID:     uuid.New(),
		})

		cap := 1
		_, err := svc.UpdateDiscount(ctx, id, &model.UpdateDiscountRequest{MaxTotalUses: &cap})
		assert.ErrorIs(t, err, model.ErrMaxUsesBelowCurrent)

		cap = 2
		_, err = svc.UpdateDiscount(ctx, id, &model.UpdateDiscountRequest{MaxTotalUses: &cap})
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "x"
		_, err := svc.UpdateDiscount(ctx, uuid.New(), &model.UpdateDiscountRequest{Name: &name})
		assert.ErrorIs(t, err, model.ErrDiscountNotFound)
	})
}

func TestUpdateDiscount_PercentageBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	t.Run("value change cannot push a percentage past 100", func(t *testing.T) {
		resp, err := svc.CreateDiscount(ctx, createRequest("PCT20"), staffID)
		require.NoError(t, err)

		value := 150.0
		_, err = svc.UpdateDiscount(ctx, resp.ID, &model.UpdateDiscountRequest{Value: &value})
		assert.ErrorIs(t, err, model.ErrInvalidValue)

		// Nothing was stored: the definition still computes a 20% discount
		result, err := svc.Evaluate(ctx, &model.EligibilityRequest{
			Code:           "PCT20",
			ItemType:       string(model.ItemTypeClass),
			ItemID:         uuid.New(),
			PurchaseAmount: decimal.NewFromInt(40),
		})
		require.NoError(t, err)
		require.True(t, result.Eligible)
		assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(8)))
	})

	t.Run("kind switch revalidates the existing value", func(t *testing.T) {
		req := createRequest("FLAT150")
		req.Kind = string(model.DiscountKindFixedAmount)
		req.Value = 150
		resp, err := svc.CreateDiscount(ctx, req, staffID)
		require.NoError(t, err)

		kind := string(model.DiscountKindPercentage)
		_, err = svc.UpdateDiscount(ctx, resp.ID, &model.UpdateDiscountRequest{Kind: &kind})
		assert.ErrorIs(t, err, model.ErrInvalidValue)
	})

	t.Run("100 percent stays allowed", func(t *testing.T) {
		resp, err := svc.CreateDiscount(ctx, createRequest("FREEBIE"), staffID)
		require.NoError(t, err)

		value := 100.0
		updated, err := svc.UpdateDiscount(ctx, resp.ID, &model.UpdateDiscountRequest{Value: &value})
		require.NoError(t, err)
		assert.True(t, updated.Value.Equal(decimal.NewFromInt(100)))
	})
}

func TestListDiscounts_StatusFilterKeepsOtherPredicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	_, err := svc.CreateDiscount(ctx, createRequest("SUMMER10"), staffID)
	require.NoError(t, err)

	yoga := createRequest("YOGA50")
	yoga.Name = "Yoga special"
	_, err = svc.CreateDiscount(ctx, yoga, staffID)
	require.NoError(t, err)

	old, err := svc.CreateDiscount(ctx, createRequest("OLD20"), staffID)
	require.NoError(t, err)
	_, err = svc.SetDiscountEnabled(ctx, old.ID, false)
	require.NoError(t, err)

	t.Run("search applies on top of a status filter", func(t *testing.T) {
		list, total, err := svc.ListDiscounts(ctx, &model.ListDiscountsFilter{
			Status: string(model.StatusActive),
			Search: "yoga",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "YOGA50", list[0].Code)
	})

	t.Run("search matches codes too", func(t *testing.T) {
		list, _, err := svc.ListDiscounts(ctx, &model.ListDiscountsFilter{
			Status: string(model.StatusActive),
			Search: "summer",
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "SUMMER10", list[0].Code)
	})

	t.Run("enabled applies on top of a status filter", func(t *testing.T) {
		enabled := true
		list, total, err := svc.ListDiscounts(ctx, &model.ListDiscountsFilter{
			Status:  string(model.StatusDisabled),
			Enabled: &enabled,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, list)

		enabled = false
		list, total, err = svc.ListDiscounts(ctx, &model.ListDiscountsFilter{
			Status:  string(model.StatusDisabled),
			Enabled: &enabled,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "OLD20", list[0].Code)
	})
}

func TestDeleteDiscount(t *testing.T) {
	svc, catalog, _ := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	t.Run("never used code is removed and code freed", func(t *testing.T) {
		resp, err := svc.CreateDiscount(ctx, createRequest("FRESH"), staffID)
		require.NoError(t, err)

		outcome, err := svc.DeleteDiscount(ctx, resp.ID)
		require.NoError(t, err)
		assert.True(t, outcome.Deleted)
		assert.False(t, outcome.Disabled)

		_, err = catalog.FindByID(ctx, resp.ID)
		assert.ErrorIs(t, err, model.ErrDiscountNotFound)

		// Code is free for reuse after the hard delete
		_, err = svc.CreateDiscount(ctx, createRequest("FRESH"), staffID)
		assert.NoError(t, err)
	})

	t.Run("used code is disabled instead", func(t *testing.T) {
		resp, err := svc.CreateDiscount(ctx, createRequest("USED"), staffID)
		require.NoError(t, err)

		_, err = svc.Redeem(ctx, &model.RedeemRequest{
			Code:           "USED",
			ItemType:       string(model.ItemTypeClass),
			ItemID:         uuid.New(),
			ItemName:       "Morning Yoga",
			PurchaseAmount: decimal.NewFromInt(30),
		}, staffID, "Front Desk")
		require.NoError(t, err)

		outcome, err := svc.DeleteDiscount(ctx, resp.ID)
		require.NoError(t, err)
		assert.False(t, outcome.Deleted)
		assert.True(t, outcome.Disabled)

		// Still queryable, just disabled
		kept, err := svc.GetDiscountByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDisabled, kept.Status)

		// Its code stays taken
		_, err = svc.CreateDiscount(ctx, createRequest("USED"), staffID)
		assert.ErrorIs(t, err, model.ErrDuplicateCode)
	})
}

func TestEvaluate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	_, err := svc.CreateDiscount(ctx, createRequest("SAVE10"), staffID)
	require.NoError(t, err)

	t.Run("unknown code is a rejection, not an error", func(t *testing.T) {
		result, err := svc.Evaluate(ctx, &model.EligibilityRequest{
			Code:           "NOPE",
			ItemType:       string(model.ItemTypeClass),
			ItemID:         uuid.New(),
			PurchaseAmount: decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.False(t, result.Eligible)
		assert.Equal(t, model.ReasonCodeNotFound, result.Reason)
	})

	t.Run("code lookup is case-insensitive", func(t *testing.T) {
		result, err := svc.Evaluate(ctx, &model.EligibilityRequest{
			Code:           " save10 ",
			ItemType:       string(model.ItemTypeClass),
			ItemID:         uuid.New(),
			PurchaseAmount: decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.True(t, result.Eligible)
		assert.Equal(t, "SAVE10", result.Discount.Code)
	})

	t.Run("evaluation writes nothing", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := svc.Evaluate(ctx, &model.EligibilityRequest{
				Code:           "SAVE10",
				ItemType:       string(model.ItemTypeClass),
				ItemID:         uuid.New(),
				PurchaseAmount: decimal.NewFromInt(50),
			})
			require.NoError(t, err)
		}

		d, err := svc.GetDiscountByID(ctx, mustFindID(t, svc, ctx, "SAVE10"))
		require.NoError(t, err)
		assert.Equal(t, 0, d.CurrentUses)
	})
}

func TestRedeem(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	req := createRequest("REDEEM20")
	maxPerUser := 1
	req.MaxUsesPerUser = &maxPerUser
	created, err := svc.CreateDiscount(ctx, req, staffID)
	require.NoError(t, err)

	memberID := uuid.New()
	memberName := "Ana Petrova"

	redeemReq := func() *model.RedeemRequest {
		return &model.RedeemRequest{
			Code:           "redeem20",
			ItemType:       string(model.ItemTypeClass),
			ItemID:         uuid.New(),
			ItemName:       "Evening Pilates",
			PurchaseAmount: decimal.RequireFromString("49.99"),
			UserID:         &memberID,
			UserName:       &memberName,
		}
	}

	t.Run("successful redemption writes the ledger", func(t *testing.T) {
		outcome, err := svc.Redeem(ctx, redeemReq(), staffID, "Front Desk")
		require.NoError(t, err)
		require.NotNil(t, outcome.Redemption)

		rec := outcome.Redemption
		assert.Equal(t, created.ID, rec.DiscountID)
		assert.Equal(t, "REDEEM20", rec.Code)
		assert.True(t, rec.DiscountAmount.Equal(decimal.NewFromInt(10)))
		assert.True(t, rec.FinalAmount.Equal(decimal.RequireFromString("39.99")))
		assert.Equal(t, evalNow, rec.UsedAt)
		assert.Equal(t, staffID, rec.ProcessedBy)

		d, err := svc.GetDiscountByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, d.CurrentUses)
	})

	t.Run("per user cap blocks the second redemption", func(t *testing.T) {
		outcome, err := svc.Redeem(ctx, redeemReq(), staffID, "Front Desk")
		require.NoError(t, err)
		assert.Nil(t, outcome.Redemption)
		assert.False(t, outcome.Result.Eligible)
		assert.Equal(t, model.ReasonPerUserLimit, outcome.Result.Reason)

		// The rejected attempt must not bump the counter
		d, err := svc.GetDiscountByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, d.CurrentUses)

		records, _ := ledger.ListAll(ctx)
		assert.Len(t, records, 1)
	})
}

func TestRedeem_GlobalCapUnderConcurrency(t *testing.T) {
	svc, _, ledger := newTestService(t)
	ctx := context.Background()
	staffID := uuid.New()

	req := createRequest("LIMITED")
	cap := 5
	req.MaxTotalUses = &cap
	created, err := svc.CreateDiscount(ctx, req, staffID)
	require.NoError(t, err)

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	conflicted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outcome, err := svc.Redeem(ctx, &model.RedeemRequest{
				Code:           "LIMITED",
				ItemType:       string(model.ItemTypeClass),
				ItemID:         uuid.New(),
				ItemName:       fmt.Sprintf("Class %d", n),
				PurchaseAmount: decimal.NewFromInt(30),
			}, staffID, "Front Desk")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && outcome.Redemption != nil:
				succeeded++
			case err == nil && outcome.Result.Reason == model.ReasonGlobalLimitReached:
				conflicted++
			default:
				assert.ErrorIs(t, err, model.ErrConcurrentLimitExceeded)
				conflicted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, cap, succeeded, "exactly the cap may succeed")
	assert.Equal(t, attempts-cap, conflicted)

	d, err := svc.GetDiscountByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, cap, d.CurrentUses, "counter must never pass the cap")

	records, _ := ledger.ListAll(ctx)
	assert.Len(t, records, cap, "one ledger row per counted use")
}

func mustFindID(t *testing.T, svc ServiceInterface, ctx context.Context, code string) uuid.UUID {
	t.Helper()
	all, _, err := svc.ListDiscounts(ctx, &model.ListDiscountsFilter{Status: "all", Page: 1, Limit: 100})
	require.NoError(t, err)
	for _, d := range all {
		if d.Code == code {
			return d.ID
		}
	}
	t.Fatalf("code %s not found", code)
	return uuid.Nil
}
