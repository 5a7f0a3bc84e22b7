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

	"fitstudio-backend/internal/domains/offering/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) OfferingRepository {
	return &PostgresRepository{db: db}
}

const offeringColumns = `
	id, name, slug, type, description,
	price, duration_minutes, capacity, sessions,
	trainer_id, is_active, created_at, updated_at
`

func scanOffering(row pgx.Row) (*model.Offering, error) {
	var o model.Offering
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.Slug,
		&o.Type,
		&o.Description,
		&o.Price,
		&o.DurationMinutes,
		&o.Capacity,
		&o.Sessions,
		&o.TrainerID,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) Create(ctx context.Context, o *model.Offering) error {
	query := `
		INSERT INTO offerings (
			id, name, slug, type, description,
			price, duration_minutes, capacity, sessions,
			trainer_id, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		o.ID, o.Name, o.Slug, o.Type, o.Description,
		o.Price, o.DurationMinutes, o.Capacity, o.Sessions,
		o.TrainerID, o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("create offering: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE id = $1`

	o, err := scanOffering(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("find offering by id: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*model.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE slug = $1`

	o, err := scanOffering(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("find offering by slug: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM offerings WHERE slug = $1`
	args := []interface{}{slug}

	if excludeID != nil {
		query += ` AND id != $2`
		args = append(args, *excludeID)
	}
	query += `)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check offering slug exists: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListOfferingsFilter) ([]*model.Offering, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *filter.IsActive)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM offerings WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count offerings: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM offerings WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		offeringColumns, where, argIdx, argIdx+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list offerings: %w", err)
	}
	defer rows.Close()

	offerings := make([]*model.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan offering row: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate offering rows: %w", err)
	}

	return offerings, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o *model.Offering) error {
	query := `
		UPDATE offerings SET
			name = $2, slug = $3, description = $4,
			price = $5, duration_minutes = $6, capacity = $7, sessions = $8,
			trainer_id = $9, is_active = $10, updated_at = $11
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		o.ID, o.Name, o.Slug, o.Description,
		o.Price, o.DurationMinutes, o.Capacity, o.Sessions,
		o.TrainerID, o.IsActive, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("update offering: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferingNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM offerings WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete offering: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOfferingNotFound
	}

	return nil
}
