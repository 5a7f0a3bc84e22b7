package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "save20", "SAVE20"},
		{"mixed case", "Save20", "SAVE20"},
		{"already upper", "SAVE20", "SAVE20"},
		{"surrounding whitespace", "  save20  ", "SAVE20"},
		{"hyphen and underscore preserved", "new-year_24", "NEW-YEAR_24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.input))
		})
	}
}

func TestResolveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	base := func() *Discount {
		return &Discount{
			Enabled:   true,
			ValidFrom: now.Add(-24 * time.Hour),
		}
	}

	tests := []struct {
		name  string
		setup func(*Discount)
		want  DerivedStatus
	}{
		{
			name:  "active with open window",
			setup: func(d *Discount) {},
			want:  StatusActive,
		},
		{
			name: "disabled wins over everything",
			setup: func(d *Discount) {
				d.Enabled = false
				d.ValidFrom = now.Add(24 * time.Hour)
				d.ValidUntil = timePtr(now.Add(-48 * time.Hour))
				d.MaxTotalUses = intPtr(1)
				d.CurrentUses = 1
			},
			want: StatusDisabled,
		},
		{
			name: "not yet started wins over expired window math",
			setup: func(d *Discount) {
				d.ValidFrom = now.Add(time.Hour)
				d.MaxTotalUses = intPtr(1)
				d.CurrentUses = 1
			},
			want: StatusNotYetStarted,
		},
		{
			name: "expired wins over used up",
			setup: func(d *Discount) {
				d.ValidUntil = timePtr(now.Add(-time.Hour))
				d.MaxTotalUses = intPtr(1)
				d.CurrentUses = 1
			},
			want: StatusExpired,
		},
		{
			name: "used up at the cap",
			setup: func(d *Discount) {
				d.MaxTotalUses = intPtr(100)
				d.CurrentUses = 100
			},
			want: StatusUsedUp,
		},
		{
			name: "one use left is still active",
			setup: func(d *Discount) {
				d.MaxTotalUses = intPtr(100)
				d.CurrentUses = 99
			},
			want: StatusActive,
		},
		{
			name: "starts exactly now",
			setup: func(d *Discount) {
				d.ValidFrom = now
			},
			want: StatusActive,
		},
		{
			name: "expires exactly now is still active",
			setup: func(d *Discount) {
				d.ValidUntil = timePtr(now)
			},
			want: StatusActive,
		},
		{
			name: "no expiry never expires",
			setup: func(d *Discount) {
				d.ValidFrom = now.Add(-10 * 365 * 24 * time.Hour)
			},
			want: StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.setup(d)
			assert.Equal(t, tt.want, ResolveStatus(d, now))
		})
	}
}

func TestRemainingUses(t *testing.T) {
	t.Run("unlimited returns nil", func(t *testing.T) {
		d := &Discount{CurrentUses: 5}
		assert.Nil(t, d.RemainingUses())
	})

	t.Run("limited returns difference", func(t *testing.T) {
		d := &Discount{MaxTotalUses: intPtr(10), CurrentUses: 3}
		got := d.RemainingUses()
		assert.NotNil(t, got)
		assert.Equal(t, 7, *got)
	})

	t.Run("never negative", func(t *testing.T) {
		d := &Discount{MaxTotalUses: intPtr(3), CurrentUses: 5}
		got := d.RemainingUses()
		assert.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})
}

func TestAppliesToItem(t *testing.T) {
	classID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name     string
		scope    DiscountScope
		itemIDs  []string
		itemType ItemType
		itemID   uuid.UUID
		want     bool
	}{
		{"all items accepts class", ScopeAllItems, nil, ItemTypeClass, classID, true},
		{"all items accepts package", ScopeAllItems, nil, ItemTypePackage, classID, true},
		{"classes only accepts class", ScopeClassesOnly, nil, ItemTypeClass, classID, true},
		{"classes only accepts workshop", ScopeClassesOnly, nil, ItemTypeWorkshop, classID, true},
		{"classes only rejects package", ScopeClassesOnly, nil, ItemTypePackage, classID, false},
		{"workshops only rejects class", ScopeWorkshopsOnly, nil, ItemTypeClass, classID, false},
		{"workshops only accepts workshop", ScopeWorkshopsOnly, nil, ItemTypeWorkshop, classID, true},
		{"packages only accepts package", ScopePackagesOnly, nil, ItemTypePackage, classID, true},
		{"specific items matches listed id", ScopeSpecificItems, []string{classID.String()}, ItemTypeClass, classID, true},
		{"specific items rejects unlisted id", ScopeSpecificItems, []string{classID.String()}, ItemTypeClass, otherID, false},
		{"specific items with empty list rejects", ScopeSpecificItems, nil, ItemTypeClass, classID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Discount{Scope: tt.scope, ScopeItemIDs: pq.StringArray(tt.itemIDs)}
			assert.Equal(t, tt.want, d.AppliesToItem(tt.itemType, tt.itemID))
		})
	}
}
