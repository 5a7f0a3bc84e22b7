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

func statsDiscount(code string, createdAt time.Time) *model.Discount {
	return &model.Discount{
		ID:        uuid.New(),
		Code:      code,
		Kind:      model.DiscountKindPercentage,
		Value:     decimal.NewFromInt(10),
		ValidFrom: createdAt,
		Scope:     model.ScopeAllItems,
		Enabled:   true,
		CreatedAt: createdAt,
	}
}

func redemptionFor(d *model.Discount, amount string) *model.Redemption {
	return &model.Redemption{
		ID:             uuid.New(),
		DiscountID:     d.ID,
		Code:           d.Code,
		ItemType:       model.ItemTypeClass,
		ItemID:         uuid.New(),
		DiscountAmount: decimal.RequireFromString(amount),
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("empty inputs", func(t *testing.T) {
		stats := Summarize(nil, nil, now)
		assert.Equal(t, 0, stats.TotalDefinitions)
		assert.Equal(t, 0, stats.TotalRedemptions)
		assert.True(t, stats.TotalDiscountGranted.IsZero())
		assert.Nil(t, stats.MostRedeemed)
		assert.Equal(t, 0, stats.CountsByStatus[model.StatusActive])
	})

	t.Run("counts by derived status", func(t *testing.T) {
		active := statsDiscount("ACTIVE", now.Add(-time.Hour))

		disabled := statsDiscount("DISABLED", now.Add(-time.Hour))
		disabled.Enabled = false

		future := statsDiscount("FUTURE", now.Add(-time.Hour))
		future.ValidFrom = now.Add(time.Hour)

		expired := statsDiscount("EXPIRED", now.Add(-48 * time.Hour))
		until := now.Add(-time.Hour)
		expired.ValidUntil = &until

		spent := statsDiscount("SPENT", now.Add(-time.Hour))
		max := 1
		spent.MaxTotalUses = &max
		spent.CurrentUses = 1

		stats := Summarize([]*model.Discount{active, disabled, future, expired, spent}, nil, now)

		assert.Equal(t, 5, stats.TotalDefinitions)
		assert.Equal(t, 1, stats.CountsByStatus[model.StatusActive])
		assert.Equal(t, 1, stats.CountsByStatus[model.StatusDisabled])
		assert.Equal(t, 1, stats.CountsByStatus[model.StatusNotYetStarted])
		assert.Equal(t, 1, stats.CountsByStatus[model.StatusExpired])
		assert.Equal(t, 1, stats.CountsByStatus[model.StatusUsedUp])
	})

	t.Run("totals and most redeemed", func(t *testing.T) {
		a := statsDiscount("ALPHA", now.Add(-3*time.Hour))
		b := statsDiscount("BRAVO", now.Add(-2*time.Hour))

		recs := []*model.Redemption{
			redemptionFor(a, "5.00"),
			redemptionFor(b, "2.50"),
			redemptionFor(b, "2.50"),
		}

		stats := Summarize([]*model.Discount{a, b}, recs, now)

		assert.Equal(t, 3, stats.TotalRedemptions)
		assert.True(t, stats.TotalDiscountGranted.Equal(decimal.RequireFromString("10.00")))
		require.NotNil(t, stats.MostRedeemed)
		assert.Equal(t, "BRAVO", stats.MostRedeemed.Code)
		assert.Equal(t, 2, stats.MostRedeemed.Count)
	})

	t.Run("tie goes to the earliest created definition", func(t *testing.T) {
		older := statsDiscount("OLDER", now.Add(-3*time.Hour))
		newer := statsDiscount("NEWER", now.Add(-time.Hour))

		recs := []*model.Redemption{
			redemptionFor(newer, "1.00"),
			redemptionFor(older, "1.00"),
		}

		stats := Summarize([]*model.Discount{newer, older}, recs, now)

		require.NotNil(t, stats.MostRedeemed)
		assert.Equal(t, "OLDER", stats.MostRedeemed.Code)
		assert.Equal(t, 1, stats.MostRedeemed.Count)
	})
}
