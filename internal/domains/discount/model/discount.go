package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DiscountKind represents valid discount kinds
type DiscountKind string

const (
	DiscountKindPercentage  DiscountKind = "percentage"
	DiscountKindFixedAmount DiscountKind = "fixed_amount"
)

func (k DiscountKind) IsValid() bool {
	switch k {
	case DiscountKindPercentage, DiscountKindFixedAmount:
		return true
	}
	return false
}

func (k DiscountKind) String() string {
	return string(k)
}

// DiscountScope restricts which offerings a code applies to
type DiscountScope string

const (
	ScopeAllItems      DiscountScope = "all_items"
	ScopeClassesOnly   DiscountScope = "classes_only"
	ScopeWorkshopsOnly DiscountScope = "workshops_only"
	ScopePackagesOnly  DiscountScope = "packages_only"
	ScopeSpecificItems DiscountScope = "specific_items"
)

func (s DiscountScope) IsValid() bool {
	switch s {
	case ScopeAllItems, ScopeClassesOnly, ScopeWorkshopsOnly, ScopePackagesOnly, ScopeSpecificItems:
		return true
	}
	return false
}

// ItemType identifies the kind of offering being purchased
type ItemType string

const (
	ItemTypeClass    ItemType = "class"
	ItemTypeWorkshop ItemType = "workshop"
	ItemTypePackage  ItemType = "package"
)

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeClass, ItemTypeWorkshop, ItemTypePackage:
		return true
	}
	return false
}

// DerivedStatus is computed from a definition plus the current time.
// It is never stored; persisting it would go stale the moment the clock
// ticks past validUntil or the counter hits the cap.
type DerivedStatus string

const (
	StatusActive        DerivedStatus = "active"
	StatusNotYetStarted DerivedStatus = "not_yet_started"
	StatusExpired       DerivedStatus = "expired"
	StatusUsedUp        DerivedStatus = "used_up"
	StatusDisabled      DerivedStatus = "disabled"
)

// Discount represents a discount code definition
type Discount struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`

	// Discount configuration
	Kind  DiscountKind    `json:"kind" db:"kind"`
	Value decimal.Decimal `json:"value" db:"value"`

	// Usage limits. CurrentUses is owned by the redemption ledger and
	// only ever moves through the conditional increment at commit time.
	MaxTotalUses   *int `json:"max_total_uses,omitempty" db:"max_total_uses"`
	MaxUsesPerUser *int `json:"max_uses_per_user,omitempty" db:"max_uses_per_user"`
	CurrentUses    int  `json:"current_uses" db:"current_uses"`

	// Validity window. ValidUntil nil means no expiry.
	ValidFrom  time.Time  `json:"valid_from" db:"valid_from"`
	ValidUntil *time.Time `json:"valid_until,omitempty" db:"valid_until"`

	// Applicability
	Scope             DiscountScope    `json:"scope" db:"scope"`
	ScopeItemIDs      pq.StringArray   `json:"scope_item_ids,omitempty" db:"scope_item_ids"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount,omitempty" db:"min_purchase_amount"`

	Enabled bool `json:"enabled" db:"enabled"`

	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeCode uppercases and trims a raw code so SAVE20, save20 and
// " Save20 " all resolve to the same definition.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ResolveStatus computes the derived status of a definition at a given
// instant. Precedence, first match wins:
// disabled > not_yet_started > expired > used_up > active.
// Boundary instants are inclusive: at exactly validFrom the code has
// started, at exactly validUntil it has not yet expired.
func ResolveStatus(d *Discount, now time.Time) DerivedStatus {
	if !d.Enabled {
		return StatusDisabled
	}
	if now.Before(d.ValidFrom) {
		return StatusNotYetStarted
	}
	if d.ValidUntil != nil && now.After(*d.ValidUntil) {
		return StatusExpired
	}
	if d.MaxTotalUses != nil && d.CurrentUses >= *d.MaxTotalUses {
		return StatusUsedUp
	}
	return StatusActive
}

// RemainingUses returns the number of global uses left, nil for unlimited codes.
func (d *Discount) RemainingUses() *int {
	if d.MaxTotalUses == nil {
		return nil
	}
	remaining := *d.MaxTotalUses - d.CurrentUses
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// AppliesToItem checks the scope rule against a purchase line.
// ScopeClassesOnly deliberately accepts workshops as well: workshops are
// sold as one-off classes at the front desk and staff expect class codes
// to cover them.
func (d *Discount) AppliesToItem(itemType ItemType, itemID uuid.UUID) bool {
	switch d.Scope {
	case ScopeAllItems:
		return true
	case ScopeClassesOnly:
		return itemType == ItemTypeClass || itemType == ItemTypeWorkshop
	case ScopeWorkshopsOnly:
		return itemType == ItemTypeWorkshop
	case ScopePackagesOnly:
		return itemType == ItemTypePackage
	case ScopeSpecificItems:
		id := itemID.String()
		for _, allowed := range d.ScopeItemIDs {
			if allowed == id {
				return true
			}
		}
		return false
	default:
		return false
	}
}
