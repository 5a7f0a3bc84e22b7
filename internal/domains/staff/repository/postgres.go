package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitstudio-backend/internal/domains/staff/model"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) StaffRepository {
	return &PostgresRepository{db: db}
}

const staffColumns = `
	id, email, password_hash, full_name, phone,
	role, is_active, last_login_at, created_at, updated_at
`

func scanStaff(row pgx.Row) (*model.Staff, error) {
	var s model.Staff
	err := row.Scan(
		&s.ID,
		&s.Email,
		&s.PasswordHash,
		&s.FullName,
		&s.Phone,
		&s.Role,
		&s.IsActive,
		&s.LastLoginAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *model.Staff) error {
	query := `
		INSERT INTO staff (
			id, email, password_hash, full_name, phone,
			role, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.Email, s.PasswordHash, s.FullName, s.Phone,
		s.Role, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create staff: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	s, err := scanStaff(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE LOWER(email) = LOWER($1)`

	s, err := scanStaff(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff by email: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM staff WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check staff email exists: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) List(ctx context.Context, page, limit int) ([]*model.Staff, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM staff`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	members := make([]*model.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff row: %w", err)
		}
		members = append(members, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate staff rows: %w", err)
	}

	return members, total, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE staff SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update staff password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.StaffRole) error {
	query := `UPDATE staff SET role = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update staff role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}

	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE staff SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set staff active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStaffNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE staff SET last_login_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("update staff last login: %w", err)
	}

	return nil
}
