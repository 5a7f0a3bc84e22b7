package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

func TestUpdateDiscountRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateDiscountRequest
		wantErr bool
	}{
		{
			name:    "empty update is valid",
			req:     UpdateDiscountRequest{},
			wantErr: false,
		},
		{
			name: "percentage with value above 100",
			req: UpdateDiscountRequest{
				Kind:  strPtr(string(DiscountKindPercentage)),
				Value: floatPtr(150),
			},
			wantErr: true,
		},
		{
			name: "percentage at exactly 100",
			req: UpdateDiscountRequest{
				Kind:  strPtr(string(DiscountKindPercentage)),
				Value: floatPtr(100),
			},
			wantErr: false,
		},
		{
			name: "fixed amount above 100 is fine",
			req: UpdateDiscountRequest{
				Kind:  strPtr(string(DiscountKindFixedAmount)),
				Value: floatPtr(150),
			},
			wantErr: false,
		},
		{
			name: "zero value rejected",
			req: UpdateDiscountRequest{
				Value: floatPtr(0),
			},
			wantErr: true,
		},
		{
			name: "specific items scope without ids",
			req: UpdateDiscountRequest{
				Scope: strPtr(string(ScopeSpecificItems)),
			},
			wantErr: true,
		},
		{
			name: "specific items scope with ids",
			req: UpdateDiscountRequest{
				Scope:        strPtr(string(ScopeSpecificItems)),
				ScopeItemIDs: []string{uuid.NewString()},
			},
			wantErr: false,
		},
		{
			name: "broad scope needs no ids",
			req: UpdateDiscountRequest{
				Scope: strPtr(string(ScopeAllItems)),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPurchaseAmountValidation(t *testing.T) {
	t.Run("eligibility accepts a zero amount", func(t *testing.T) {
		req := EligibilityRequest{
			Code:           "FREEPASS",
			ItemType:       string(ItemTypeClass),
			ItemID:         uuid.New(),
			PurchaseAmount: decimal.Zero,
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("eligibility rejects a negative amount", func(t *testing.T) {
		req := EligibilityRequest{
			Code:           "FREEPASS",
			ItemType:       string(ItemTypeClass),
			ItemID:         uuid.New(),
			PurchaseAmount: decimal.NewFromInt(-1),
		}
		assert.Error(t, req.Validate())
	})

	t.Run("redeem accepts a zero amount", func(t *testing.T) {
		req := RedeemRequest{
			Code:           "FREEPASS",
			ItemType:       string(ItemTypeClass),
			ItemID:         uuid.New(),
			ItemName:       "Open Day Class",
			PurchaseAmount: decimal.Zero,
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("redeem rejects a negative amount", func(t *testing.T) {
		req := RedeemRequest{
			Code:           "FREEPASS",
			ItemType:       string(ItemTypeClass),
			ItemID:         uuid.New(),
			ItemName:       "Open Day Class",
			PurchaseAmount: decimal.NewFromInt(-1),
		}
		assert.Error(t, req.Validate())
	})
}
