package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"marketplace-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// ProductFilter narrows the product listing. Zero values mean "no filter".
type ProductFilter struct {
	Name         string
	CategoryID   int64
	CategoryName string
	ShopID       int64
	PriceMin     *float64
	PriceMax     *float64
	Ordering     string // "price" or "-price"
	Limit        int
	Offset       int
}

type productRow struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	CategoryID  int64    `db:"category_id"`
	MinPrice    *float64 `db:"min_price"`
}

// ListProducts returns products matching the filter with nested category,
// offers and parameters.
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductView, error) {
	where := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Name != "" {
		addArg("p.name ILIKE '%%' || $%d || '%%'", filter.Name)
	}
	if filter.CategoryID != 0 {
		addArg("p.category_id = $%d", filter.CategoryID)
	}
	if filter.CategoryName != "" {
		addArg("c.name ILIKE '%%' || $%d || '%%'", filter.CategoryName)
	}
	if filter.ShopID != 0 {
		addArg("pi.shop_id = $%d", filter.ShopID)
	}
	if filter.PriceMin != nil {
		addArg("pi.price >= $%d", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		addArg("pi.price <= $%d", *filter.PriceMax)
	}

	query := `
		SELECT p.id, p.name, p.description, p.category_id, MIN(pi.price) AS min_price
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN product_infos pi ON pi.product_id = p.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY p.id, p.name, p.description, p.category_id"

	switch filter.Ordering {
	case "price":
		query += " ORDER BY min_price ASC NULLS LAST, p.id"
	case "-price":
		query += " ORDER BY min_price DESC NULLS LAST, p.id"
	default:
		query += " ORDER BY p.id"
	}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	return s.assembleProducts(ctx, rows)
}

// GetProduct returns a single product with nested category and offers.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.ProductView, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, name, description, category_id FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	views, err := s.assembleProducts(ctx, []productRow{row})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Store) assembleProducts(ctx context.Context, rows []productRow) ([]models.ProductView, error) {
	if len(rows) == 0 {
		return []models.ProductView{}, nil
	}

	categoryIDs := make([]int64, 0, len(rows))
	productIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		categoryIDs = append(categoryIDs, row.CategoryID)
		productIDs = append(productIDs, row.ID)
	}

	categories, err := s.categoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	offers, err := s.offersByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProductView, 0, len(rows))
	for _, row := range rows {
		view := models.ProductView{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Category:    categories[row.CategoryID],
			Offers:      offers[row.ID],
		}
		if view.Offers == nil {
			view.Offers = []models.OfferView{}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Store) categoriesByIDs(ctx context.Context, ids []int64) (map[int64]models.Category, error) {
	query, args, err := sqlx.In("SELECT * FROM categories WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var categories []models.Category
	if err := s.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]models.Category, len(categories))
	for _, c := range categories {
		result[c.ID] = c
	}
	return result, nil
}

type offerRow struct {
	ID           int64   `db:"id"`
	ProductID    int64   `db:"product_id"`
	ExternalID   string  `db:"external_id"`
	Model        string  `db:"model"`
	Quantity     int     `db:"quantity"`
	Price        float64 `db:"price"`
	PriceRRC     float64 `db:"price_rrc"`
	ShopID       int64   `db:"shop_id"`
	ShopName     string  `db:"shop_name"`
	ShopURL      string  `db:"shop_url"`
	ShopIsActive bool    `db:"shop_is_active"`
}

func (s *Store) offersByProductIDs(ctx context.Context, productIDs []int64) (map[int64][]models.OfferView, error) {
	query, args, err := sqlx.In(`
		SELECT pi.id, pi.product_id, pi.external_id, pi.model, pi.quantity, pi.price, pi.price_rrc,
		       sh.id AS shop_id, sh.name AS shop_name, sh.url AS shop_url, sh.is_active AS shop_is_active
		FROM product_infos pi
		JOIN shops sh ON sh.id = pi.shop_id
		WHERE pi.product_id IN (?)
		ORDER BY pi.id`, productIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []offerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[int64][]models.OfferView{}, nil
	}

	offerIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		offerIDs = append(offerIDs, row.ID)
	}
	parameters, err := s.offerParameterValues(ctx, offerIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]models.OfferView)
	for _, row := range rows {
		view := models.OfferView{
			ID:         row.ID,
			ExternalID: row.ExternalID,
			Model:      row.Model,
			Quantity:   row.Quantity,
			Price:      row.Price,
			PriceRRC:   row.PriceRRC,
			Shop: models.Shop{
				ID:       row.ShopID,
				Name:     row.ShopName,
				URL:      row.ShopURL,
				IsActive: row.ShopIsActive,
			},
			Parameters: parameters[row.ID],
		}
		if view.Parameters == nil {
			view.Parameters = []models.ParameterValue{}
		}
		result[row.ProductID] = append(result[row.ProductID], view)
	}
	return result, nil
}

func (s *Store) offerParameterValues(ctx context.Context, offerIDs []int64) (map[int64][]models.ParameterValue, error) {
	query, args, err := sqlx.In(`
		SELECT pp.product_info_id, pr.name, pp.value
		FROM product_parameters pp
		JOIN parameters pr ON pr.id = pp.parameter_id
		WHERE pp.product_info_id IN (?)
		ORDER BY pr.name`, offerIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []parameterRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64][]models.ParameterValue)
	for _, row := range rows {
		result[row.ProductInfoID] = append(result[row.ProductInfoID], models.ParameterValue{
			Parameter: row.Name,
			Value:     row.Value,
		})
	}
	return result, nil
}
