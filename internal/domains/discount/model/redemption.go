package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Redemption is an append-only ledger entry recording one successful use
// of a discount code. Rows are never updated or deleted; corrections are
// an accounting problem, not a mutation problem.
type Redemption struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DiscountID uuid.UUID `json:"discount_id" db:"discount_id"`

	// Code is snapshotted so the ledger stays readable even after the
	// definition is renamed or removed.
	Code string `json:"code" db:"code"`

	// Member the code was redeemed for. Nil for walk-in sales.
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	UserName  *string    `json:"user_name,omitempty" db:"user_name"`
	UserEmail *string    `json:"user_email,omitempty" db:"user_email"`

	// Purchase line the discount applied to
	ItemType ItemType  `json:"item_type" db:"item_type"`
	ItemID   uuid.UUID `json:"item_id" db:"item_id"`
	ItemName string    `json:"item_name" db:"item_name"`

	// Amounts, all snapshotted at redemption time.
	// Invariant: OriginalAmount = DiscountAmount + FinalAmount.
	OriginalAmount decimal.Decimal `json:"original_amount" db:"original_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount" db:"final_amount"`

	UsedAt          time.Time `json:"used_at" db:"used_at"`
	ProcessedBy     uuid.UUID `json:"processed_by" db:"processed_by"`
	ProcessedByName string    `json:"processed_by_name" db:"processed_by_name"`
}
