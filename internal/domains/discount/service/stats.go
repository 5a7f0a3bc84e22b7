package service

import (
	"time"

	"github.com/shopspring/decimal"

	"fitstudio-backend/internal/domains/discount/model"
)

// Summarize aggregates the whole catalog and ledger into one stats view.
// Pure function over snapshots; the caller decides how fresh they are.
func Summarize(defs []*model.Discount, recs []*model.Redemption, now time.Time) *model.Stats {
	stats := &model.Stats{
		TotalDefinitions: len(defs),
		CountsByStatus: map[model.DerivedStatus]int{
			model.StatusActive:        0,
			model.StatusNotYetStarted: 0,
			model.StatusExpired:       0,
			model.StatusUsedUp:        0,
			model.StatusDisabled:      0,
		},
		TotalRedemptions:     len(recs),
		TotalDiscountGranted: decimal.Zero,
	}

	for _, d := range defs {
		stats.CountsByStatus[model.ResolveStatus(d, now)]++
	}

	counts := make(map[string]int, len(defs))
	for _, rec := range recs {
		stats.TotalDiscountGranted = stats.TotalDiscountGranted.Add(rec.DiscountAmount)
		counts[rec.DiscountID.String()]++
	}

	// Most redeemed code. Ties go to the definition created first, so the
	// winner is stable across calls.
	var winner *model.Discount
	winnerCount := 0
	for _, d := range defs {
		c := counts[d.ID.String()]
		if c == 0 {
			continue
		}
		if c > winnerCount || (c == winnerCount && d.CreatedAt.Before(winner.CreatedAt)) {
			winner = d
			winnerCount = c
		}
	}
	if winner != nil {
		stats.MostRedeemed = &model.MostRedeemedCode{
			DiscountID: winner.ID,
			Code:       winner.Code,
			Count:      winnerCount,
		}
	}

	return stats
}
