package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitstudio-backend/internal/domains/discount/model"
	"fitstudio-backend/pkg/database"
)

// PostgresLedgerStore implements LedgerStore with PostgreSQL
type PostgresLedgerStore struct {
	db *pgxpool.Pool
}

func NewPostgresLedgerStore(db *pgxpool.Pool) LedgerStore {
	return &PostgresLedgerStore{db: db}
}

const redemptionColumns = `
	id, discount_id, code,
	user_id, user_name, user_email,
	item_type, item_id, item_name,
	original_amount, discount_amount, final_amount,
	used_at, processed_by, processed_by_name
`

func scanRedemption(row pgx.Row) (*model.Redemption, error) {
	var rec model.Redemption
	err := row.Scan(
		&rec.ID,
		&rec.DiscountID,
		&rec.Code,
		&rec.UserID,
		&rec.UserName,
		&rec.UserEmail,
		&rec.ItemType,
		&rec.ItemID,
		&rec.ItemName,
		&rec.OriginalAmount,
		&rec.DiscountAmount,
		&rec.FinalAmount,
		&rec.UsedAt,
		&rec.ProcessedBy,
		&rec.ProcessedByName,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CommitRedemption performs the atomic redeem step.
//
// Flow:
//
//	Step 1: conditionally increment current_uses, guarded by the global cap
//	Step 2: if no row moved, find out whether the code vanished or the cap won
//	Step 3: append the ledger row
//
// Both statements run in one transaction so the counter and the ledger
// can never drift apart.
func (s *PostgresLedgerStore) CommitRedemption(ctx context.Context, rec *model.Redemption) error {
	return database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		// Step 1: conditional increment. The WHERE clause is the whole
		// concurrency story; two parallel commits serialize on the row
		// lock and the loser sees the already-bumped counter.
		incrementQuery := `
			UPDATE discounts
			SET current_uses = current_uses + 1, updated_at = NOW()
			WHERE id = $1
			  AND (max_total_uses IS NULL OR current_uses < max_total_uses)
		`

		tag, err := tx.Exec(ctx, incrementQuery, rec.DiscountID)
		if err != nil {
			return fmt.Errorf("increment discount uses: %w", err)
		}

		if tag.RowsAffected() == 0 {
			// Step 2: distinguish a missing definition from a hit cap
			var exists bool
			checkQuery := `SELECT EXISTS(SELECT 1 FROM discounts WHERE id = $1)`
			if err := tx.QueryRow(ctx, checkQuery, rec.DiscountID).Scan(&exists); err != nil {
				return fmt.Errorf("check discount exists: %w", err)
			}
			if !exists {
				return model.ErrDiscountNotFound
			}
			return model.ErrConcurrentLimitExceeded
		}

		// Step 3: append the ledger row
		insertQuery := `
			INSERT INTO discount_redemptions (
				id, discount_id, code,
				user_id, user_name, user_email,
				item_type, item_id, item_name,
				original_amount, discount_amount, final_amount,
				used_at, processed_by, processed_by_name
			) VALUES (
				$1, $2, $3,
				$4, $5, $6,
				$7, $8, $9,
				$10, $11, $12,
				$13, $14, $15
			)
		`

		_, err = tx.Exec(ctx, insertQuery,
			rec.ID, rec.DiscountID, rec.Code,
			rec.UserID, rec.UserName, rec.UserEmail,
			rec.ItemType, rec.ItemID, rec.ItemName,
			rec.OriginalAmount, rec.DiscountAmount, rec.FinalAmount,
			rec.UsedAt, rec.ProcessedBy, rec.ProcessedByName,
		)
		if err != nil {
			return fmt.Errorf("insert redemption: %w", err)
		}

		return nil
	})
}

func (s *PostgresLedgerStore) CountByUser(ctx context.Context, discountID, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM discount_redemptions WHERE discount_id = $1 AND user_id = $2`

	var count int
	if err := s.db.QueryRow(ctx, query, discountID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count redemptions by user: %w", err)
	}

	return count, nil
}

func (s *PostgresLedgerStore) ListByDiscount(ctx context.Context, discountID uuid.UUID, page, limit int) ([]*model.Redemption, int, error) {
	countQuery := `SELECT COUNT(*) FROM discount_redemptions WHERE discount_id = $1`

	var total int
	if err := s.db.QueryRow(ctx, countQuery, discountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count redemptions: %w", err)
	}

	query := `
		SELECT ` + redemptionColumns + `
		FROM discount_redemptions
		WHERE discount_id = $1
		ORDER BY used_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Query(ctx, query, discountID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	records := make([]*model.Redemption, 0)
	for rows.Next() {
		rec, err := scanRedemption(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan redemption row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate redemption rows: %w", err)
	}

	return records, total, nil
}

func (s *PostgresLedgerStore) ListAll(ctx context.Context) ([]*model.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM discount_redemptions ORDER BY used_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all redemptions: %w", err)
	}
	defer rows.Close()

	records := make([]*model.Redemption, 0)
	for rows.Next() {
		rec, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemption rows: %w", err)
	}

	return records, nil
}

func (s *PostgresLedgerStore) HasRedemptions(ctx context.Context, discountID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM discount_redemptions WHERE discount_id = $1)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, discountID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check redemptions exist: %w", err)
	}

	return exists, nil
}
