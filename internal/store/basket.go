package store

import (
	"context"
	"database/sql"

	"marketplace-service/internal/models"
)

// UpsertBasketItem sets the quantity of one offer in the user's basket.
// Setting a quantity for an offer already present replaces the stored
// quantity, it never adds to it.
func (s *Store) UpsertBasketItem(ctx context.Context, item *models.BasketItem) error {
	err := s.db.GetContext(ctx, item, `
		INSERT INTO basket_items (user_id, product_info_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_info_id) DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id, created_at`,
		item.UserID, item.ProductInfoID, item.Quantity)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// BasketLines lists the user's basket joined with offer data. Amounts
// are computed from the current offer price.
func (s *Store) BasketLines(ctx context.Context, userID int64) ([]models.BasketLine, error) {
	lines := []models.BasketLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT b.id,
		       b.product_info_id,
		       p.name AS product,
		       sh.name AS shop,
		       b.quantity,
		       pi.price,
		       b.quantity * pi.price AS amount
		FROM basket_items b
		JOIN product_infos pi ON pi.id = b.product_info_id
		JOIN products p ON p.id = pi.product_id
		JOIN shops sh ON sh.id = pi.shop_id
		WHERE b.user_id = $1
		ORDER BY b.id`,
		userID)
	return lines, err
}

// DeleteBasketItem removes one basket line scoped to its owner.
func (s *Store) DeleteBasketItem(ctx context.Context, itemID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM basket_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// OfferExists reports whether an offer id is known.
func (s *Store) OfferExists(ctx context.Context, productInfoID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM product_infos WHERE id = $1)", productInfoID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}
