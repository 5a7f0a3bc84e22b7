package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fitstudio-backend/internal/domains/discount/model"
	"fitstudio-backend/internal/domains/discount/repository"
	"fitstudio-backend/pkg/cache"
	"fitstudio-backend/pkg/logger"
)

const (
	statsCacheKey = "discounts:stats"
	statsCacheTTL = 60 * time.Second
)

// Clock supplies the current instant. Injected so status resolution and
// redemption timestamps are testable.
type Clock func() time.Time

type discountService struct {
	catalog repository.CatalogStore
	ledger  repository.LedgerStore
	cache   cache.Cache
	now     Clock
}

func NewService(catalog repository.CatalogStore, ledger repository.LedgerStore, c cache.Cache, clock Clock) ServiceInterface {
	if clock == nil {
		clock = time.Now
	}
	return &discountService{
		catalog: catalog,
		ledger:  ledger,
		cache:   c,
		now:     clock,
	}
}

// ==========================================================
// POS OPERATIONS
// ==========================================================

// Evaluate checks whether a code can be applied to a purchase.
//
// Business logic flow:
//
//	Step 1: normalize the code and load the definition
//	Step 2: load the member's prior use count when a per-user cap exists
//	Step 3: run the pure evaluation
//
// A missing code comes back as a rejection result, not an error; the POS
// treats every rejection the same way.
func (s *discountService) Evaluate(ctx context.Context, req *model.EligibilityRequest) (*model.EligibilityResult, error) {
	// Step 1: load by normalized code
	d, err := s.catalog.FindByCode(ctx, model.NormalizeCode(req.Code))
	if err != nil {
		if errors.Is(err, model.ErrDiscountNotFound) {
			return model.Reject(model.ReasonCodeNotFound, req.PurchaseAmount), nil
		}
		return nil, err
	}

	// Step 2: prior uses only matter when a per-user cap is set
	priorUses := 0
	if d.MaxUsesPerUser != nil && req.UserID != nil {
		priorUses, err = s.ledger.CountByUser(ctx, d.ID, *req.UserID)
		if err != nil {
			return nil, err
		}
	}

	// Step 3: pure evaluation against the injected clock
	return EvaluateDiscount(d, req, priorUses, s.now()), nil
}

// Redeem evaluates and, when eligible, commits the redemption.
//
// Business logic flow:
//
//	Step 1: re-evaluate with current data
//	Step 2: build the ledger entry from the evaluation snapshot
//	Step 3: commit counter increment and ledger append atomically
//
// The per-user cap is checked in Step 1 but not re-verified inside the
// commit transaction. Two parallel redemptions for the same member can
// slip one past the per-user cap; the global cap stays hard because the
// conditional increment enforces it under the row lock.
func (s *discountService) Redeem(ctx context.Context, req *model.RedeemRequest, processedBy uuid.UUID, processedByName string) (*model.RedeemOutcome, error) {
	evalReq := &model.EligibilityRequest{
		Code:           req.Code,
		ItemType:       req.ItemType,
		ItemID:         req.ItemID,
		PurchaseAmount: req.PurchaseAmount,
		UserID:         req.UserID,
	}

	result, err := s.Evaluate(ctx, evalReq)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return &model.RedeemOutcome{Result: result}, nil
	}

	rec := &model.Redemption{
		ID:              uuid.New(),
		DiscountID:      result.Discount.ID,
		Code:            result.Discount.Code,
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		ItemType:        model.ItemType(req.ItemType),
		ItemID:          req.ItemID,
		ItemName:        req.ItemName,
		OriginalAmount:  result.OriginalAmount,
		DiscountAmount:  result.DiscountAmount,
		FinalAmount:     result.FinalAmount,
		UsedAt:          s.now(),
		ProcessedBy:     processedBy,
		ProcessedByName: processedByName,
	}

	if err := s.ledger.CommitRedemption(ctx, rec); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	logger.Info("discount redeemed", map[string]interface{}{
		"discount_id": rec.DiscountID,
		"code":        rec.Code,
		"amount":      rec.DiscountAmount.String(),
	})

	return &model.RedeemOutcome{Result: result, Redemption: rec}, nil
}

// ==========================================================
// ADMIN OPERATIONS
// ==========================================================

func (s *discountService) CreateDiscount(ctx context.Context, req *model.CreateDiscountRequest, createdBy uuid.UUID) (*model.DiscountResponse, error) {
	code := model.NormalizeCode(req.Code)

	// Duplicate check happens case-insensitively; the unique index backs
	// it up under concurrency.
	exists, err := s.catalog.CodeExists(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateCode
	}

	validFrom, validUntil, err := parseValidityWindow(req.ValidFrom, req.ValidUntil)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := &model.Discount{
		ID:             uuid.New(),
		Code:           code,
		Name:           req.Name,
		Description:    req.Description,
		Kind:           model.DiscountKind(req.Kind),
		Value:          decimal.NewFromFloat(req.Value),
		MaxTotalUses:   req.MaxTotalUses,
		MaxUsesPerUser: req.MaxUsesPerUser,
		CurrentUses:    0,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		Scope:          model.DiscountScope(req.Scope),
		ScopeItemIDs:   pq.StringArray(req.ScopeItemIDs),
		Enabled:        req.Enabled,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.MinPurchaseAmount != nil {
		min := decimal.NewFromFloat(*req.MinPurchaseAmount)
		d.MinPurchaseAmount = &min
	}

	if err := s.catalog.Create(ctx, d); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	logger.Info("discount created", map[string]interface{}{
		"discount_id": d.ID,
		"code":        d.Code,
	})

	return d.ToResponse(s.now()), nil
}

func (s *discountService) GetDiscountByID(ctx context.Context, id uuid.UUID) (*model.DiscountResponse, error) {
	d, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.ToResponse(s.now()), nil
}

// ListDiscounts returns a page of definitions with derived status.
// Status is computed, not stored, so status filters run over the full
// catalog in memory. The catalog is small (an admin console, not a feed)
// and the list endpoint is not hot.
func (s *discountService) ListDiscounts(ctx context.Context, filter *model.ListDiscountsFilter) ([]*model.DiscountResponse, int, error) {
	filter.SetDefaults()
	now := s.now()

	if filter.Status == "all" {
		discounts, total, err := s.catalog.List(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		responses := make([]*model.DiscountResponse, 0, len(discounts))
		for _, d := range discounts {
			responses = append(responses, d.ToResponse(now))
		}
		return responses, total, nil
	}

	all, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	want := model.DerivedStatus(filter.Status)
	search := strings.ToLower(filter.Search)
	matched := make([]*model.DiscountResponse, 0)
	for _, d := range all {
		if model.ResolveStatus(d, now) != want {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Code), search) &&
			!strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		if filter.Enabled != nil && d.Enabled != *filter.Enabled {
			continue
		}
		matched = append(matched, d.ToResponse(now))
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []*model.DiscountResponse{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (s *discountService) UpdateDiscount(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountRequest) (*model.DiscountResponse, error) {
	d, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := model.NormalizeCode(*req.Code)
		if code != d.Code {
			exists, err := s.catalog.CodeExists(ctx, code, &id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, model.ErrDuplicateCode
			}
			d.Code = code
		}
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = req.Description
	}
	if req.Kind != nil {
		d.Kind = model.DiscountKind(*req.Kind)
	}
	if req.Value != nil {
		d.Value = decimal.NewFromFloat(*req.Value)
	}
	if req.MaxTotalUses != nil {
		// The cap may tighten but never below what has already been spent
		if *req.MaxTotalUses < d.CurrentUses {
			return nil, model.ErrMaxUsesBelowCurrent
		}
		d.MaxTotalUses = req.MaxTotalUses
	}
	if req.MaxUsesPerUser != nil {
		d.MaxUsesPerUser = req.MaxUsesPerUser
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("parse valid_from: %w", err)
		}
		d.ValidFrom = t
	}
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("parse valid_until: %w", err)
		}
		d.ValidUntil = &t
	}
	if req.Scope != nil {
		d.Scope = model.DiscountScope(*req.Scope)
	}
	if req.ScopeItemIDs != nil {
		d.ScopeItemIDs = pq.StringArray(req.ScopeItemIDs)
	}
	if req.MinPurchaseAmount != nil {
		min := decimal.NewFromFloat(*req.MinPurchaseAmount)
		d.MinPurchaseAmount = &min
	}
	if req.Enabled != nil {
		d.Enabled = *req.Enabled
	}

	// Cross-field constraints are rechecked on the merged definition: a
	// value-only or kind-only change can produce a percentage above 100
	// that neither field would reveal alone.
	if d.Kind == model.DiscountKindPercentage && d.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, model.ErrInvalidValue
	}
	if d.ValidUntil != nil && d.ValidUntil.Before(d.ValidFrom) {
		return nil, model.ErrInvalidDateRange
	}

	d.UpdatedAt = s.now()

	if err := s.catalog.Update(ctx, d); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	return d.ToResponse(s.now()), nil
}

func (s *discountService) SetDiscountEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*model.DiscountResponse, error) {
	if err := s.catalog.SetEnabled(ctx, id, enabled); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	d, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.ToResponse(s.now()), nil
}

// DeleteDiscount removes a definition, with a twist: once a code has
// been redeemed its ledger rows reference it, so instead of deleting we
// disable it and keep it queryable. A never-used code is removed outright
// and its code string freed for reuse.
func (s *discountService) DeleteDiscount(ctx context.Context, id uuid.UUID) (*model.DeleteOutcome, error) {
	d, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	used, err := s.ledger.HasRedemptions(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome := &model.DeleteOutcome{ID: id}
	if used {
		if err := s.catalog.SetEnabled(ctx, id, false); err != nil {
			return nil, err
		}
		outcome.Disabled = true
		outcome.Message = "discount has redemptions and was disabled instead of deleted"
	} else {
		if err := s.catalog.Delete(ctx, id); err != nil {
			return nil, err
		}
		outcome.Deleted = true
		outcome.Message = "discount deleted"
	}

	s.invalidateStats(ctx)

	logger.Info("discount removed", map[string]interface{}{
		"discount_id": id,
		"code":        d.Code,
		"disabled":    outcome.Disabled,
	})

	return outcome, nil
}

func (s *discountService) ListRedemptions(ctx context.Context, discountID uuid.UUID, page, limit int) ([]*model.Redemption, int, error) {
	if _, err := s.catalog.FindByID(ctx, discountID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.ledger.ListByDiscount(ctx, discountID, page, limit)
}

func (s *discountService) GetStats(ctx context.Context) (*model.Stats, error) {
	var cached model.Stats
	if s.cache != nil {
		found, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			logger.Error("read stats cache", err)
		} else if found {
			return &cached, nil
		}
	}

	defs, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := Summarize(defs, recs, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			logger.Error("write stats cache", err)
		}
	}

	return stats, nil
}

// ==========================================================
// HELPERS
// ==========================================================

func (s *discountService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		logger.Error("invalidate stats cache", err)
	}
}

func parseValidityWindow(from string, until *string) (time.Time, *time.Time, error) {
	validFrom, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("parse valid_from: %w", err)
	}

	var validUntil *time.Time
	if until != nil {
		t, err := time.Parse(time.RFC3339, *until)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("parse valid_until: %w", err)
		}
		if t.Before(validFrom) {
			return time.Time{}, nil, model.ErrInvalidDateRange
		}
		validUntil = &t
	}

	return validFrom, validUntil, nil
}
