package service

import (
	"time"

	"github.com/shopspring/decimal"

	"fitstudio-backend/internal/domains/discount/model"
)

var oneHundred = decimal.NewFromInt(100)

// EvaluateDiscount runs the full eligibility check for one definition
// against one purchase. It is pure: no I/O, no clock reads, no writes.
// The caller supplies the definition, the prior use count for the member
// (0 for walk-ins) and the instant to evaluate at.
//
// Checks run in a fixed order and the first failure wins, so a code that
// is both expired and below minimum always reports EXPIRED.
func EvaluateDiscount(d *model.Discount, req *model.EligibilityRequest, priorUserUses int, now time.Time) *model.EligibilityResult {
	original := req.PurchaseAmount

	// Step 1: lifecycle checks via the derived status
	switch model.ResolveStatus(d, now) {
	case model.StatusDisabled:
		return model.Reject(model.ReasonCodeDisabled, original)
	case model.StatusNotYetStarted:
		return model.Reject(model.ReasonNotYetActive, original)
	case model.StatusExpired:
		return model.Reject(model.ReasonExpired, original)
	case model.StatusUsedUp:
		return model.Reject(model.ReasonGlobalLimitReached, original)
	}

	// Step 2: per-member limit. Walk-ins carry no identity and are never
	// limited per user.
	if d.MaxUsesPerUser != nil && req.UserID != nil && priorUserUses >= *d.MaxUsesPerUser {
		return model.Reject(model.ReasonPerUserLimit, original)
	}

	// Step 3: minimum purchase. Exactly the minimum passes.
	if d.MinPurchaseAmount != nil && original.LessThan(*d.MinPurchaseAmount) {
		return model.Reject(model.ReasonBelowMinimum, original)
	}

	// Step 4: scope
	if !d.AppliesToItem(model.ItemType(req.ItemType), req.ItemID) {
		return model.Reject(model.ReasonOutOfScope, original)
	}

	discountAmount := computeDiscountAmount(d, original)

	return &model.EligibilityResult{
		Eligible: true,
		Discount: &model.DiscountInfo{
			ID:    d.ID,
			Code:  d.Code,
			Name:  d.Name,
			Kind:  d.Kind,
			Value: d.Value,
		},
		OriginalAmount: original,
		DiscountAmount: discountAmount,
		FinalAmount:    original.Sub(discountAmount),
	}
}

// computeDiscountAmount returns the money taken off the purchase.
//
// Percentage discounts round half up to 2 decimal places. Fixed amounts
// are clamped to the purchase so the final price never goes negative.
func computeDiscountAmount(d *model.Discount, purchase decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal

	switch d.Kind {
	case model.DiscountKindPercentage:
		amount = purchase.Mul(d.Value).Div(oneHundred).Round(2)
	case model.DiscountKindFixedAmount:
		amount = d.Value
	default:
		return decimal.Zero
	}

	if amount.GreaterThan(purchase) {
		amount = purchase
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return amount
}
