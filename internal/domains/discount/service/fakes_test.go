package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/discount/model"
)

// memCatalog is an in-memory CatalogStore used by the service tests.
type memCatalog struct {
	mu        sync.Mutex
	discounts map[uuid.UUID]*model.Discount
}

func newMemCatalog() *memCatalog {
	return &memCatalog{discounts: make(map[uuid.UUID]*model.Discount)}
}

func (m *memCatalog) clone(d *model.Discount) *model.Discount {
	cp := *d
	return &cp
}

func (m *memCatalog) Create(_ context.Context, d *model.Discount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.discounts {
		if strings.EqualFold(existing.Code, d.Code) {
			return model.ErrDuplicateCode
		}
	}
	m.discounts[d.ID] = m.clone(d)
	return nil
}

func (m *memCatalog) FindByID(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.discounts[id]
	if !ok {
		return nil, model.ErrDiscountNotFound
	}
	return m.clone(d), nil
}

func (m *memCatalog) FindByCode(_ context.Context, code string) (*model.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.discounts {
		if strings.EqualFold(d.Code, code) {
			return m.clone(d), nil
		}
	}
	return nil, model.ErrDiscountNotFound
}

func (m *memCatalog) CodeExists(_ context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.discounts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if strings.EqualFold(d.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCatalog) List(_ context.Context, filter *model.ListDiscountsFilter) ([]*model.Discount, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Discount, 0, len(m.discounts))
	for _, d := range m.discounts {
		out = append(out, m.clone(d))
	}
	return out, len(out), nil
}

func (m *memCatalog) ListAll(_ context.Context) ([]*model.Discount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Discount, 0, len(m.discounts))
	for _, d := range m.discounts {
		out = append(out, m.clone(d))
	}
	return out, nil
}

func (m *memCatalog) Update(_ context.Context, d *model.Discount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.discounts[d.ID]; !ok {
		return model.ErrDiscountNotFound
	}
	m.discounts[d.ID] = m.clone(d)
	return nil
}

func (m *memCatalog) SetEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.discounts[id]
	if !ok {
		return model.ErrDiscountNotFound
	}
	d.Enabled = enabled
	return nil
}

func (m *memCatalog) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.discounts[id]; !ok {
		return model.ErrDiscountNotFound
	}
	delete(m.discounts, id)
	return nil
}

// memLedger is an in-memory LedgerStore. CommitRedemption holds one
// mutex across the counter check, the increment and the append, mirroring
// the single transaction the real store runs.
type memLedger struct {
	mu      sync.Mutex
	catalog *memCatalog
	records []*model.Redemption
}

func newMemLedger(catalog *memCatalog) *memLedger {
	return &memLedger{catalog: catalog}
}

func (m *memLedger) CommitRedemption(_ context.Context, rec *model.Redemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog.mu.Lock()
	defer m.catalog.mu.Unlock()

	d, ok := m.catalog.discounts[rec.DiscountID]
	if !ok {
		return model.ErrDiscountNotFound
	}
	if d.MaxTotalUses != nil && d.CurrentUses >= *d.MaxTotalUses {
		return model.ErrConcurrentLimitExceeded
	}

	d.CurrentUses++
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *memLedger) CountByUser(_ context.Context, discountID, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.records {
		if rec.DiscountID == discountID && rec.UserID != nil && *rec.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memLedger) ListByDiscount(_ context.Context, discountID uuid.UUID, page, limit int) ([]*model.Redemption, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*model.Redemption, 0)
	for _, rec := range m.records {
		if rec.DiscountID == discountID {
			cp := *rec
			matched = append(matched, &cp)
		}
	}
	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []*model.Redemption{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memLedger) ListAll(_ context.Context) ([]*model.Redemption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Redemption, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLedger) HasRedemptions(_ context.Context, discountID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.DiscountID == discountID {
			return true, nil
		}
	}
	return false, nil
}
