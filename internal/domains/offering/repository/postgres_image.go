package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitstudio-backend/internal/domains/offering/model"
)

type PostgresImageRepository struct {
	db *pgxpool.Pool
}

func NewPostgresImageRepository(db *pgxpool.Pool) ImageRepository {
	return &PostgresImageRepository{db: db}
}

const imageColumns = `
	id, offering_id, original_url, large_url, medium_url, thumbnail_url,
	sort_order, is_cover, status, last_error, created_at, updated_at
`

func scanImage(row pgx.Row) (*model.OfferingImage, error) {
	var img model.OfferingImage
	err := row.Scan(
		&img.ID,
		&img.OfferingID,
		&img.OriginalURL,
		&img.LargeURL,
		&img.MediumURL,
		&img.ThumbnailURL,
		&img.SortOrder,
		&img.IsCover,
		&img.Status,
		&img.LastError,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *PostgresImageRepository) Create(ctx context.Context, img *model.OfferingImage) error {
	query := `
		INSERT INTO offering_images (
			id, offering_id, original_url, sort_order, is_cover,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		img.ID, img.OfferingID, img.OriginalURL, img.SortOrder, img.IsCover,
		img.Status, img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create offering image: %w", err)
	}

	return nil
}

func (r *PostgresImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.OfferingImage, error) {
	query := `SELECT ` + imageColumns + ` FROM offering_images WHERE id = $1`

	img, err := scanImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrImageNotFound
		}
		return nil, fmt.Errorf("find offering image: %w", err)
	}

	return img, nil
}

func (r *PostgresImageRepository) ListByOffering(ctx context.Context, offeringID uuid.UUID) ([]*model.OfferingImage, error) {
	query := `SELECT ` + imageColumns + ` FROM offering_images WHERE offering_id = $1 ORDER BY sort_order ASC`

	rows, err := r.db.Query(ctx, query, offeringID)
	if err != nil {
		return nil, fmt.Errorf("list offering images: %w", err)
	}
	defer rows.Close()

	images := make([]*model.OfferingImage, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offering image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offering image rows: %w", err)
	}

	return images, nil
}

func (r *PostgresImageRepository) UpdateVariants(ctx context.Context, id uuid.UUID, largeURL, mediumURL, thumbnailURL string) error {
	query := `
		UPDATE offering_images
		SET large_url = $2, medium_url = $3, thumbnail_url = $4,
		    status = $5, last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, largeURL, mediumURL, thumbnailURL, model.ImageStatusReady)
	if err != nil {
		return fmt.Errorf("update offering image variants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageNotFound
	}

	return nil
}

func (r *PostgresImageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ImageStatus, lastError string) error {
	query := `UPDATE offering_images SET status = $2, last_error = NULLIF($3, ''), updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, lastError)
	if err != nil {
		return fmt.Errorf("update offering image status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImageNotFound
	}

	return nil
}

func (r *PostgresImageRepository) DeleteByOffering(ctx context.Context, offeringID uuid.UUID) error {
	query := `DELETE FROM offering_images WHERE offering_id = $1`

	if _, err := r.db.Exec(ctx, query, offeringID); err != nil {
		return fmt.Errorf("delete offering images: %w", err)
	}

	return nil
}
