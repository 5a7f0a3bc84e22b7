package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitstudio-backend/internal/domains/discount/model"
)

// PostgresCatalogStore implements CatalogStore with PostgreSQL
type PostgresCatalogStore struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogStore(db *pgxpool.Pool) CatalogStore {
	return &PostgresCatalogStore{db: db}
}

const discountColumns = `
	id, code, name, description,
	kind, value,
	max_total_uses, max_uses_per_user, current_uses,
	valid_from, valid_until,
	scope, scope_item_ids, min_purchase_amount,
	enabled, created_by, created_at, updated_at
`

func scanDiscount(row pgx.Row) (*model.Discount, error) {
	var d model.Discount
	err := row.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Description,
		&d.Kind,
		&d.Value,
		&d.MaxTotalUses,
		&d.MaxUsesPerUser,
		&d.CurrentUses,
		&d.ValidFrom,
		&d.ValidUntil,
		&d.Scope,
		&d.ScopeItemIDs,
		&d.MinPurchaseAmount,
		&d.Enabled,
		&d.CreatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

func (s *PostgresCatalogStore) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (
			id, code, name, description,
			kind, value,
			max_total_uses, max_uses_per_user, current_uses,
			valid_from, valid_until,
			scope, scope_item_ids, min_purchase_amount,
			enabled, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8, $9,
			$10, $11,
			$12, $13, $14,
			$15, $16, $17, $18
		)
	`

	_, err := s.db.Exec(ctx, query,
		d.ID, d.Code, d.Name, d.Description,
		d.Kind, d.Value,
		d.MaxTotalUses, d.MaxUsesPerUser, d.CurrentUses,
		d.ValidFrom, d.ValidUntil,
		d.Scope, d.ScopeItemIDs, d.MinPurchaseAmount,
		d.Enabled, d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("create discount: %w", err)
	}

	return nil
}

func (s *PostgresCatalogStore) Update(ctx context.Context, d *model.Discount) error {
	query := `
		UPDATE discounts SET
			code = $2, name = $3, description = $4,
			kind = $5, value = $6,
			max_total_uses = $7, max_uses_per_user = $8,
			valid_from = $9, valid_until = $10,
			scope = $11, scope_item_ids = $12, min_purchase_amount = $13,
			enabled = $14, updated_at = $15
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query,
		d.ID, d.Code, d.Name, d.Description,
		d.Kind, d.Value,
		d.MaxTotalUses, d.MaxUsesPerUser,
		d.ValidFrom, d.ValidUntil,
		d.Scope, d.ScopeItemIDs, d.MinPurchaseAmount,
		d.Enabled, d.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("update discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

func (s *PostgresCatalogStore) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	query := `UPDATE discounts SET enabled = $2, updated_at = NOW() WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, enabled)
	if err != nil {
		return fmt.Errorf("set discount enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

func (s *PostgresCatalogStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM discounts WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

func (s *PostgresCatalogStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1`

	d, err := scanDiscount(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("find discount by id: %w", err)
	}

	return d, nil
}

func (s *PostgresCatalogStore) FindByCode(ctx context.Context, code string) (*model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE LOWER(code) = LOWER($1)`

	d, err := scanDiscount(s.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("find discount by code: %w", err)
	}

	return d, nil
}

func (s *PostgresCatalogStore) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM discounts WHERE LOWER(code) = LOWER($1)`
	args := []interface{}{code}

	if excludeID != nil {
		query += ` AND id != $2`
		args = append(args, *excludeID)
	}
	query += `)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check discount code exists: %w", err)
	}

	return exists, nil
}

func (s *PostgresCatalogStore) List(ctx context.Context, filter *model.ListDiscountsFilter) ([]*model.Discount, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Enabled != nil {
		conditions = append(conditions, fmt.Sprintf("enabled = $%d", argIdx))
		args = append(args, *filter.Enabled)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM discounts WHERE ` + where
	var total int
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count discounts: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "created_at_asc":
		orderBy = "created_at ASC"
	case "code_asc":
		orderBy = "code ASC"
	case "usage_desc":
		orderBy = "current_uses DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM discounts WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		discountColumns, where, orderBy, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()

	discounts := make([]*model.Discount, 0)
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan discount row: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate discount rows: %w", err)
	}

	return discounts, total, nil
}

func (s *PostgresCatalogStore) ListAll(ctx context.Context) ([]*model.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts ORDER BY created_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all discounts: %w", err)
	}
	defer rows.Close()

	discounts := make([]*model.Discount, 0)
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}

	return discounts, nil
}
