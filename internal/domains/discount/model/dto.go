package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ========================================
// ADMIN DTOs
// ========================================

// CreateDiscountRequest creates a new discount definition
type CreateDiscountRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`

	Kind  string  `json:"kind" binding:"required"`
	Value float64 `json:"value" binding:"required"`

	MaxTotalUses   *int `json:"max_total_uses,omitempty"`
	MaxUsesPerUser *int `json:"max_uses_per_user,omitempty"`

	ValidFrom  string  `json:"valid_from" binding:"required"`
	ValidUntil *string `json:"valid_until,omitempty"`

	Scope             string   `json:"scope" binding:"required"`
	ScopeItemIDs      []string `json:"scope_item_ids,omitempty"`
	MinPurchaseAmount *float64 `json:"min_purchase_amount,omitempty"`

	Enabled bool `json:"enabled"`
}

func (r CreateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("code is required"),
			validation.Length(3, 50),
			validation.Match(codePattern).Error("code may only contain letters, digits, underscore and hyphen"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(2, 200),
		),
		validation.Field(&r.Kind,
			validation.Required,
			validation.In(string(DiscountKindPercentage), string(DiscountKindFixedAmount)),
		),
		validation.Field(&r.Value,
			validation.Required,
			validation.Min(0.0).Exclusive().Error("value must be greater than 0"),
			validation.When(r.Kind == string(DiscountKindPercentage),
				validation.Max(100.0).Error("percentage value cannot exceed 100"),
			),
		),
		validation.Field(&r.MaxTotalUses,
			validation.When(r.MaxTotalUses != nil, validation.Min(1)),
		),
		validation.Field(&r.MaxUsesPerUser,
			validation.When(r.MaxUsesPerUser != nil, validation.Min(1)),
		),
		validation.Field(&r.ValidFrom,
			validation.Required,
			validation.Date(time.RFC3339).Error("valid_from must be RFC3339"),
		),
		validation.Field(&r.ValidUntil,
			validation.When(r.ValidUntil != nil,
				validation.Date(time.RFC3339).Error("valid_until must be RFC3339"),
			),
		),
		validation.Field(&r.Scope,
			validation.Required,
			validation.In(
				string(ScopeAllItems),
				string(ScopeClassesOnly),
				string(ScopeWorkshopsOnly),
				string(ScopePackagesOnly),
				string(ScopeSpecificItems),
			),
		),
		validation.Field(&r.ScopeItemIDs,
			validation.When(r.Scope == string(ScopeSpecificItems),
				validation.Required.Error("scope_item_ids is required for specific_items scope"),
				validation.Each(is.UUID),
			),
		),
		validation.Field(&r.MinPurchaseAmount,
			validation.When(r.MinPurchaseAmount != nil, validation.Min(0.0)),
		),
	)
}

// UpdateDiscountRequest is a partial update; nil fields are left untouched
type UpdateDiscountRequest struct {
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	Kind  *string  `json:"kind,omitempty"`
	Value *float64 `json:"value,omitempty"`

	MaxTotalUses   *int `json:"max_total_uses,omitempty"`
	MaxUsesPerUser *int `json:"max_uses_per_user,omitempty"`

	ValidFrom  *string `json:"valid_from,omitempty"`
	ValidUntil *string `json:"valid_until,omitempty"`

	Scope             *string  `json:"scope,omitempty"`
	ScopeItemIDs      []string `json:"scope_item_ids,omitempty"`
	MinPurchaseAmount *float64 `json:"min_purchase_amount,omitempty"`

	Enabled *bool `json:"enabled,omitempty"`
}

func (r UpdateDiscountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.When(r.Code != nil,
				validation.Length(3, 50),
				validation.Match(codePattern).Error("code may only contain letters, digits, underscore and hyphen"),
			),
		),
		validation.Field(&r.Name,
			validation.When(r.Name != nil, validation.Length(2, 200)),
		),
		validation.Field(&r.Kind,
			validation.When(r.Kind != nil,
				validation.In(string(DiscountKindPercentage), string(DiscountKindFixedAmount)),
			),
		),
		validation.Field(&r.Value,
			validation.When(r.Value != nil,
				validation.Min(0.0).Exclusive().Error("value must be greater than 0"),
				validation.When(r.Kind != nil && *r.Kind == string(DiscountKindPercentage),
					validation.Max(100.0).Error("percentage value cannot exceed 100"),
				),
			),
		),
		validation.Field(&r.MaxTotalUses,
			validation.When(r.MaxTotalUses != nil, validation.Min(1)),
		),
		validation.Field(&r.MaxUsesPerUser,
			validation.When(r.MaxUsesPerUser != nil, validation.Min(1)),
		),
		validation.Field(&r.ValidFrom,
			validation.When(r.ValidFrom != nil, validation.Date(time.RFC3339)),
		),
		validation.Field(&r.ValidUntil,
			validation.When(r.ValidUntil != nil, validation.Date(time.RFC3339)),
		),
		validation.Field(&r.Scope,
			validation.When(r.Scope != nil,
				validation.In(
					string(ScopeAllItems),
					string(ScopeClassesOnly),
					string(ScopeWorkshopsOnly),
					string(ScopePackagesOnly),
					string(ScopeSpecificItems),
				),
			),
		),
		validation.Field(&r.ScopeItemIDs,
			validation.When(r.Scope != nil && *r.Scope == string(ScopeSpecificItems),
				validation.Required.Error("scope_item_ids is required for specific_items scope"),
			),
			validation.Each(is.UUID),
		),
		validation.Field(&r.MinPurchaseAmount,
			validation.When(r.MinPurchaseAmount != nil, validation.Min(0.0)),
		),
	)
}

// ListDiscountsFilter filters the admin list view
type ListDiscountsFilter struct {
	Status  string `form:"status"` // active, not_yet_started, expired, used_up, disabled, all
	Search  string `form:"search"`
	Enabled *bool  `form:"enabled"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	Sort    string `form:"sort"`
}

func (f *ListDiscountsFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status == "" {
		f.Status = "all"
	}
	if f.Sort == "" {
		f.Sort = "created_at_desc"
	}
}

func (f ListDiscountsFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status,
			validation.In("all",
				string(StatusActive),
				string(StatusNotYetStarted),
				string(StatusExpired),
				string(StatusUsedUp),
				string(StatusDisabled),
			),
		),
		validation.Field(&f.Sort,
			validation.In("created_at_desc", "created_at_asc", "code_asc", "usage_desc"),
		),
	)
}

// ========================================
// POS DTOs
// ========================================

// EligibilityRequest asks whether a code can be applied to a purchase.
// Evaluating is side-effect free, so the POS may fire it on every
// keystroke for a live preview.
type EligibilityRequest struct {
	Code           string          `json:"code" binding:"required"`
	ItemType       string          `json:"item_type" binding:"required"`
	ItemID         uuid.UUID       `json:"item_id" binding:"required"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
}

func (r EligibilityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.ItemType,
			validation.Required,
			validation.In(string(ItemTypeClass), string(ItemTypeWorkshop), string(ItemTypePackage)),
		),
		validation.Field(&r.ItemID, validation.Required),
		validation.Field(&r.PurchaseAmount,
			validation.By(func(interface{}) error {
				if r.PurchaseAmount.IsNegative() {
					return validation.NewError("validation_negative_amount", "purchase_amount cannot be negative")
				}
				return nil
			}),
		),
	)
}

// DiscountInfo is the slim view of a definition attached to results
type DiscountInfo struct {
	ID    uuid.UUID       `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// EligibilityResult carries the outcome of an eligibility check.
// Rejections are data, not errors: the POS renders Reason and Message
// and moves on.
type EligibilityResult struct {
	Eligible bool            `json:"eligible"`
	Reason   RejectionReason `json:"reason,omitempty"`
	Message  string          `json:"message,omitempty"`

	Discount       *DiscountInfo   `json:"discount,omitempty"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// Reject builds a rejection result with the canonical message.
func Reject(reason RejectionReason, original decimal.Decimal) *EligibilityResult {
	return &EligibilityResult{
		Eligible:       false,
		Reason:         reason,
		Message:        reason.Message(),
		OriginalAmount: original,
		DiscountAmount: decimal.Zero,
		FinalAmount:    original,
	}
}

// RedeemRequest commits a redemption after a successful evaluation
type RedeemRequest struct {
	Code           string          `json:"code" binding:"required"`
	ItemType       string          `json:"item_type" binding:"required"`
	ItemID         uuid.UUID       `json:"item_id" binding:"required"`
	ItemName       string          `json:"item_name" binding:"required"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	UserName       *string         `json:"user_name,omitempty"`
	UserEmail      *string         `json:"user_email,omitempty"`
}

func (r RedeemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.ItemType,
			validation.Required,
			validation.In(string(ItemTypeClass), string(ItemTypeWorkshop), string(ItemTypePackage)),
		),
		validation.Field(&r.ItemID, validation.Required),
		validation.Field(&r.ItemName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.PurchaseAmount,
			validation.By(func(interface{}) error {
				if r.PurchaseAmount.IsNegative() {
					return validation.NewError("validation_negative_amount", "purchase_amount cannot be negative")
				}
				return nil
			}),
		),
		validation.Field(&r.UserEmail,
			validation.When(r.UserEmail != nil && *r.UserEmail != "", is.Email),
		),
	)
}

// ========================================
// RESPONSES
// ========================================

// RedeemOutcome bundles the evaluation result with the ledger entry
// written on success. Redemption is nil when the code was rejected.
type RedeemOutcome struct {
	Result     *EligibilityResult `json:"result"`
	Redemption *Redemption        `json:"redemption,omitempty"`
}

// DiscountResponse is a definition plus its status derived at read time
type DiscountResponse struct {
	Discount
	Status        DerivedStatus `json:"status"`
	RemainingUses *int          `json:"remaining_uses,omitempty"`
}

// ToResponse attaches the derived status computed at now.
func (d *Discount) ToResponse(now time.Time) *DiscountResponse {
	return &DiscountResponse{
		Discount:      *d,
		Status:        ResolveStatus(d, now),
		RemainingUses: d.RemainingUses(),
	}
}

// DeleteOutcome reports what deleting a definition actually did
type DeleteOutcome struct {
	ID       uuid.UUID `json:"id"`
	Deleted  bool      `json:"deleted"`
	Disabled bool      `json:"disabled"`
	Message  string    `json:"message"`
}

// MostRedeemedCode identifies the code with the most ledger entries
type MostRedeemedCode struct {
	DiscountID uuid.UUID `json:"discount_id"`
	Code       string    `json:"code"`
	Count      int       `json:"count"`
}

// Stats is the aggregate view over all definitions and redemptions
type Stats struct {
	TotalDefinitions     int                   `json:"total_definitions"`
	CountsByStatus       map[DerivedStatus]int `json:"counts_by_status"`
	TotalRedemptions     int                   `json:"total_redemptions"`
	TotalDiscountGranted decimal.Decimal       `json:"total_discount_granted"`
	MostRedeemed         *MostRedeemedCode     `json:"most_redeemed,omitempty"`
}
