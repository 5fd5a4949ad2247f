package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"showroom/internal/domain"
)

// ProductRepositoryPG implements domain.ProductRepository.
type ProductRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository backed by PostgreSQL.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepositoryPG {
	return &ProductRepositoryPG{pool: pool}
}

// Create inserts a new product record.
func (r *ProductRepositoryPG) Create(ctx context.Context, product *domain.Product) error {
	colors, err := json.Marshal(product.Colors)
	if err != nil {
		return fmt.Errorf("encode colors: %w", err)
	}
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return fmt.Errorf("encode sizes: %w", err)
	}
	query := `
INSERT INTO products (id, name, image_source, fabric, gender, category, narration_text, narration_lang, colors, sizes, media_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err = r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.ImageSource,
		product.Fabric,
		product.Gender,
		product.Category,
		product.NarrationText,
		product.NarrationLang,
		colors,
		sizes,
		product.MediaStatus,
	)
	return err
}

// GetByID fetches a product by its identifier, trashed rows included so
// the admin surface can inspect them.
func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := selectColumns + `
FROM products
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// List returns live products, newest first.
func (r *ProductRepositoryPG) List(ctx context.Context) ([]domain.Product, error) {
	query := selectColumns + `
FROM products
WHERE deleted_at IS NULL
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// UpdateMedia applies one pipeline status transition. Artifact columns
// only change when the update carries a value, so a narration written
// alongside a failed video is preserved and never overwritten with NULL.
func (r *ProductRepositoryPG) UpdateMedia(ctx context.Context, id string, update domain.MediaUpdate) error {
	query := `
UPDATE products
SET media_status = $2,
    updated_at = NOW(),
    video_url = COALESCE($3, video_url),
    audio_data_url = COALESCE($4, audio_data_url),
    failure_reason = COALESCE($5, failure_reason)
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query, id, update.Status, update.VideoURL, update.AudioDataURL, update.FailureReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete moves products into the trash and reports how many rows moved.
func (r *ProductRepositoryPG) SoftDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
UPDATE products
SET deleted_at = NOW(),
    updated_at = NOW()
WHERE id = ANY($1) AND deleted_at IS NULL;
`
	tag, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Restore brings a trashed product back into the live catalog.
func (r *ProductRepositoryPG) Restore(ctx context.Context, id string) error {
	query := `
UPDATE products
SET deleted_at = NULL,
    updated_at = NOW()
WHERE id = $1 AND deleted_at IS NOT NULL;
`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListTrash returns trashed products, most recently deleted first.
func (r *ProductRepositoryPG) ListTrash(ctx context.Context) ([]domain.Product, error) {
	query := selectColumns + `
FROM products
WHERE deleted_at IS NOT NULL
ORDER BY deleted_at DESC;
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// PurgeExpired permanently removes trash entries older than the horizon.
func (r *ProductRepositoryPG) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	query := `
DELETE FROM products
WHERE deleted_at IS NOT NULL AND deleted_at < $1;
`
	tag, err := r.pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const selectColumns = `
SELECT id, name, image_source, fabric, gender, category, narration_text, narration_lang,
       colors, sizes, video_url, audio_data_url, media_status, failure_reason,
       created_at, updated_at, deleted_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product       domain.Product
		colors, sizes []byte
	)
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.ImageSource,
		&product.Fabric,
		&product.Gender,
		&product.Category,
		&product.NarrationText,
		&product.NarrationLang,
		&colors,
		&sizes,
		&product.VideoURL,
		&product.AudioDataURL,
		&product.MediaStatus,
		&product.FailureReason,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.DeletedAt,
	); err != nil {
		return nil, err
	}
	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &product.Colors); err != nil {
			return nil, fmt.Errorf("decode colors: %w", err)
		}
	}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &product.Sizes); err != nil {
			return nil, fmt.Errorf("decode sizes: %w", err)
		}
	}
	return &product, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *product)
	}
	return out, rows.Err()
}

var _ domain.ProductRepository = (*ProductRepositoryPG)(nil)
