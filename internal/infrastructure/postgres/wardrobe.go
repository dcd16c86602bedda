package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/outfitplanner/backend/internal/domain"
)

// WardrobeRepository implements domain.WardrobeRepository on the wardrobe_items table
type WardrobeRepository struct {
	db *sql.DB
}

const wardrobeColumns = `id, name, category, color, season, tags, image, embedding, created_at`

func (r *WardrobeRepository) Create(ctx context.Context, item *domain.WardrobeItem) error {
	query := `
		INSERT INTO wardrobe_items (id, name, category, color, season, tags, image, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.Color, item.Season,
		pq.Array(nonNilTags(item.Tags)), item.Image, toFloat64Array(item.Embedding), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wardrobe item: %w", err)
	}
	return nil
}

func (r *WardrobeRepository) Get(ctx context.Context, id string) (*domain.WardrobeItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wardrobeColumns+` FROM wardrobe_items WHERE id = $1`, id)

	item, err := scanWardrobeItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wardrobe item: %w", err)
	}
	return item, nil
}

func (r *WardrobeRepository) List(ctx context.Context) ([]domain.WardrobeItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+wardrobeColumns+` FROM wardrobe_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe items: %w", err)
	}
	defer rows.Close()

	items := []domain.WardrobeItem{}
	for rows.Next() {
		item, err := scanWardrobeItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wardrobe item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *WardrobeRepository) Update(ctx context.Context, item *domain.WardrobeItem) error {
	query := `
		UPDATE wardrobe_items
		SET name = $2, category = $3, color = $4, season = $5, tags = $6, image = $7, embedding = $8
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.Color, item.Season,
		pq.Array(nonNilTags(item.Tags)), item.Image, toFloat64Array(item.Embedding),
	)
	if err != nil {
		return fmt.Errorf("update wardrobe item: %w", err)
	}
	return expectOneRow(res)
}

func (r *WardrobeRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE wardrobe_items SET embedding = $2 WHERE id = $1`, id, toFloat64Array(embedding))
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	return expectOneRow(res)
}

func (r *WardrobeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wardrobe_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete wardrobe item: %w", err)
	}
	return expectOneRow(res)
}

func (r *WardrobeRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wardrobe_items`); err != nil {
		return fmt.Errorf("clear wardrobe: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWardrobeItem(row rowScanner) (*domain.WardrobeItem, error) {
	var (
		item      domain.WardrobeItem
		tags      pq.StringArray
		embedding pq.Float64Array
	)
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Color, &item.Season,
		&tags, &item.Image, &embedding, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.Tags = []string(tags)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	item.Embedding = toFloat32(embedding)
	return &item, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// toFloat64Array returns nil (SQL NULL) for a missing embedding
func toFloat64Array(v []float32) interface{} {
	if v == nil {
		return nil
	}
	out := make(pq.Float64Array, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

func toFloat32(v pq.Float64Array) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
