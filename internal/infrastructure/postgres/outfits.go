package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/outfitplanner/backend/internal/domain"
)

// OutfitRepository implements domain.OutfitRepository on cart_items and saved_outfits
type OutfitRepository struct {
	db *sql.DB
}

func (r *OutfitRepository) AddCartItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, category, title, price, image, link, brand, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	l := item.Listing
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, string(item.Category),
		l.Title, l.Price, l.Image, l.Link, l.Brand, l.Source, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *OutfitRepository) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	query := `
		SELECT id, user_id, category, title, price, image, link, brand, source, created_at
		FROM cart_items WHERE user_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item     domain.CartItem
			category string
		)
		l := &item.Listing
		if err := rows.Scan(&item.ID, &item.UserID, &category,
			&l.Title, &l.Price, &l.Image, &l.Link, &l.Brand, &l.Source, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Category = domain.Category(category)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OutfitRepository) DeleteCartItem(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return expectOneRow(res)
}

func (r *OutfitRepository) SaveOutfit(ctx context.Context, outfit *domain.SavedOutfit) error {
	combination, err := json.Marshal(outfit.Combination)
	if err != nil {
		return fmt.Errorf("encode combination: %w", err)
	}

	query := `
		INSERT INTO saved_outfits (id, user_id, name, combination, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, outfit.ID, outfit.UserID, outfit.Name, string(combination), outfit.CreatedAt); err != nil {
		return fmt.Errorf("insert saved outfit: %w", err)
	}
	return nil
}

func (r *OutfitRepository) ListOutfits(ctx context.Context, userID string) ([]domain.SavedOutfit, error) {
	query := `
		SELECT id, user_id, name, combination, created_at
		FROM saved_outfits WHERE user_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved outfits: %w", err)
	}
	defer rows.Close()

	outfits := []domain.SavedOutfit{}
	for rows.Next() {
		var (
			outfit domain.SavedOutfit
			raw    []byte
		)
		if err := rows.Scan(&outfit.ID, &outfit.UserID, &outfit.Name, &raw, &outfit.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved outfit: %w", err)
		}
		if err := json.Unmarshal(raw, &outfit.Combination); err != nil {
			return nil, fmt.Errorf("decode combination: %w", err)
		}
		outfits = append(outfits, outfit)
	}
	return outfits, rows.Err()
}
