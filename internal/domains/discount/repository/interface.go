package repository

import (
	"context"

	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/discount/model"
)

// CatalogStore persists discount definitions.
type CatalogStore interface {
	Create(ctx context.Context, d *model.Discount) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)

	// FindByCode matches case-insensitively against the stored code.
	FindByCode(ctx context.Context, code string) (*model.Discount, error)

	// CodeExists reports whether another definition already owns the code,
	// ignoring excludeID so updates can keep their own code.
	CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)

	List(ctx context.Context, filter *model.ListDiscountsFilter) ([]*model.Discount, int, error)
	ListAll(ctx context.Context) ([]*model.Discount, error)
	Update(ctx context.Context, d *model.Discount) error
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerStore persists redemption records. The ledger is append-only.
type LedgerStore interface {
	// CommitRedemption atomically increments the definition's usage counter
	// and appends the ledger row in one transaction. The increment is
	// conditional on the global cap; when a parallel commit already took
	// the last use it returns model.ErrConcurrentLimitExceeded and writes
	// nothing.
	CommitRedemption(ctx context.Context, rec *model.Redemption) error

	CountByUser(ctx context.Context, discountID, userID uuid.UUID) (int, error)
	ListByDiscount(ctx context.Context, discountID uuid.UUID, page, limit int) ([]*model.Redemption, int, error)
	ListAll(ctx context.Context) ([]*model.Redemption, error)
	HasRedemptions(ctx context.Context, discountID uuid.UUID) (bool, error)
}
