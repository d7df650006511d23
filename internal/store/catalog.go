package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// ApplyImport applies a full catalog replace for the shop named in the
// plan. The whole sequence runs in one transaction: a failure at any
// step leaves the shop's previous offer set untouched.
func (s *Store) ApplyImport(ctx context.Context, plan models.ImportPlan) (*models.Shop, error) {
	var shop models.Shop

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := upsertShopByName(ctx, tx, plan.ShopName, &shop); err != nil {
			return err
		}

		categoryIDs := make(map[string]int64, len(plan.Categories))
		for _, cat := range plan.Categories {
			var id int64
			err := tx.GetContext(ctx, &id, `
				INSERT INTO categories (name, external_id)
				VALUES ($1, $2)
				ON CONFLICT (external_id) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`,
				cat.Name, cat.ExternalID)
			if err != nil {
				return fmt.Errorf("failed to upsert category %q: %w", cat.ExternalID, err)
			}
			categoryIDs[cat.ExternalID] = id

			// Associations are additive: stale ones are never removed.
			_, err = tx.ExecContext(ctx, `
				INSERT INTO shop_categories (shop_id, category_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				shop.ID, id)
			if err != nil {
				return fmt.Errorf("failed to associate category with shop: %w", err)
			}
		}

		// Destructive reset of the shop's offer set. Parameter values
		// cascade with the offers.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM product_infos WHERE shop_id = $1", shop.ID); err != nil {
			return fmt.Errorf("failed to clear shop offers: %w", err)
		}

		for _, offer := range plan.Offers {
			categoryID, ok := categoryIDs[offer.CategoryExternalID]
			if !ok {
				// The document may reference a category recorded by an
				// earlier import.
				err := tx.GetContext(ctx, &categoryID,
					"SELECT id FROM categories WHERE external_id = $1",
					offer.CategoryExternalID)
				if err == sql.ErrNoRows {
					return fmt.Errorf("%w: %s", ErrUnknownCategory, offer.CategoryExternalID)
				}
				if err != nil {
					return fmt.Errorf("failed to look up category %q: %w", offer.CategoryExternalID, err)
				}
				categoryIDs[offer.CategoryExternalID] = categoryID
			}

			var productID int64
			err := tx.GetContext(ctx, &productID, `
				INSERT INTO products (name, category_id)
				VALUES ($1, $2)
				ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`,
				offer.ProductName, categoryID)
			if err != nil {
				return fmt.Errorf("failed to upsert product %q: %w", offer.ProductName, err)
			}

			var infoID int64
			err = tx.GetContext(ctx, &infoID, `
				INSERT INTO product_infos (product_id, shop_id, external_id, model, quantity, price, price_rrc)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				productID, shop.ID, offer.ExternalID, offer.Model, offer.Quantity, offer.Price, offer.PriceRRC)
			if err != nil {
				return fmt.Errorf("failed to insert offer %q: %w", offer.ExternalID, err)
			}

			for name, value := range offer.Parameters {
				var parameterID int64
				err := tx.GetContext(ctx, &parameterID, `
					INSERT INTO parameters (name)
					VALUES ($1)
					ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
					RETURNING id`,
					name)
				if err != nil {
					return fmt.Errorf("failed to upsert parameter %q: %w", name, err)
				}

				_, err = tx.ExecContext(ctx, `
					INSERT INTO product_parameters (product_info_id, parameter_id, value)
					VALUES ($1, $2, $3)`,
					infoID, parameterID, value)
				if err != nil {
					return fmt.Errorf("failed to insert parameter value %q: %w", name, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &shop, nil
}

func upsertShopByName(ctx context.Context, tx *sqlx.Tx, name string, shop *models.Shop) error {
	err := tx.GetContext(ctx, shop,
		"SELECT * FROM shops WHERE name = $1 ORDER BY id LIMIT 1", name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to look up shop %q: %w", name, err)
	}

	err = tx.GetContext(ctx, shop,
		"INSERT INTO shops (name) VALUES ($1) RETURNING *", name)
	if err != nil {
		return fmt.Errorf("failed to create shop %q: %w", name, err)
	}
	return nil
}

// FirstActiveShop returns the oldest active shop.
func (s *Store) FirstActiveShop(ctx context.Context) (*models.Shop, error) {
	var shop models.Shop
	err := s.db.GetContext(ctx, &shop,
		"SELECT * FROM shops WHERE is_active ORDER BY id LIMIT 1")
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// ShopByUserID returns the shop owned by the user.
func (s *Store) ShopByUserID(ctx context.Context, userID int64) (*models.Shop, error) {
	var shop models.Shop
	err := s.db.GetContext(ctx, &shop,
		"SELECT * FROM shops WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// SetShopActive updates the shop's activity flag.
func (s *Store) SetShopActive(ctx context.Context, shopID int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE shops SET is_active = $1, updated_at = NOW() WHERE id = $2",
		active, shopID)
	return err
}

// BindShopUser binds a shop to a user, but only while the shop is not
// owned yet. Binding an already owned shop is a no-op.
func (s *Store) BindShopUser(ctx context.Context, shopID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE shops SET user_id = $1, updated_at = NOW() WHERE id = $2 AND user_id IS NULL",
		userID, shopID)
	return err
}

// ShopCategories returns all categories associated with the shop.
func (s *Store) ShopCategories(ctx context.Context, shopID int64) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.* FROM categories c
		JOIN shop_categories sc ON sc.category_id = c.id
		WHERE sc.shop_id = $1
		ORDER BY c.id`,
		shopID)
	return categories, err
}

type exportRow struct {
	OfferID            int64   `db:"offer_id"`
	OfferExternalID    string  `db:"offer_external_id"`
	ProductName        string  `db:"product_name"`
	CategoryID         int64   `db:"category_id"`
	CategoryExternalID *string `db:"category_external_id"`
	Model              string  `db:"model"`
	Quantity           int     `db:"quantity"`
	Price              float64 `db:"price"`
	PriceRRC           float64 `db:"price_rrc"`
}

// ShopExportOffers returns the shop's current offers flattened for the
// catalog exporter, with parameters resolved to name/value maps.
func (s *Store) ShopExportOffers(ctx context.Context, shopID int64) ([]models.ExportOffer, error) {
	var rows []exportRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT pi.id AS offer_id,
		       pi.external_id AS offer_external_id,
		       p.name AS product_name,
		       c.id AS category_id,
		       c.external_id AS category_external_id,
		       pi.model, pi.quantity, pi.price, pi.price_rrc
		FROM product_infos pi
		JOIN products p ON p.id = pi.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE pi.shop_id = $1
		ORDER BY pi.id`,
		shopID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.ExportOffer{}, nil
	}

	parameters, err := s.offerParameters(ctx, collectOfferIDs(rows))
	if err != nil {
		return nil, err
	}

	offers := make([]models.ExportOffer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, models.ExportOffer{
			OfferID:            row.OfferID,
			OfferExternalID:    row.OfferExternalID,
			ProductName:        row.ProductName,
			CategoryID:         row.CategoryID,
			CategoryExternalID: row.CategoryExternalID,
			Model:              row.Model,
			Quantity:           row.Quantity,
			Price:              row.Price,
			PriceRRC:           row.PriceRRC,
			Parameters:         parameters[row.OfferID],
		})
	}
	return offers, nil
}

func collectOfferIDs(rows []exportRow) []int64 {
	ids := make([]int64, len(rows))
	for i := range rows {
		ids[i] = rows[i].OfferID
	}
	return ids
}

type parameterRow struct {
	ProductInfoID int64  `db:"product_info_id"`
	Name          string `db:"name"`
	Value         string `db:"value"`
}

func (s *Store) offerParameters(ctx context.Context, offerIDs []int64) (map[int64]map[string]string, error) {
	if len(offerIDs) == 0 {
		return map[int64]map[string]string{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT pp.product_info_id, pr.name, pp.value
		FROM product_parameters pp
		JOIN parameters pr ON pr.id = pp.parameter_id
		WHERE pp.product_info_id IN (?)`, offerIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []parameterRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]map[string]string, len(offerIDs))
	for _, row := range rows {
		if result[row.ProductInfoID] == nil {
			result[row.ProductInfoID] = make(map[string]string)
		}
		result[row.ProductInfoID][row.Name] = row.Value
	}
	return result, nil
}
