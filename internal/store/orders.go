package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// PlaceOrder converts the user's basket into an order in one
// transaction: the order row and its items are created and the basket is
// emptied together, or nothing happens at all.
//
// It returns ErrNotFound when the contact does not exist or belongs to
// another user and ErrEmptyBasket when there is nothing to order.
func (s *Store) PlaceOrder(ctx context.Context, userID, contactID int64) (*models.Order, []models.OrderItem, error) {
	var (
		order models.Order
		items []models.OrderItem
	)

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var contactOwner int64
		err := tx.GetContext(ctx, &contactOwner,
			"SELECT user_id FROM contacts WHERE id = $1", contactID)
		if err == sql.ErrNoRows || (err == nil && contactOwner != userID) {
			return fmt.Errorf("%w: contact %d", ErrNotFound, contactID)
		}
		if err != nil {
			return fmt.Errorf("failed to look up contact: %w", err)
		}

		var basket []models.BasketItem
		err = tx.SelectContext(ctx, &basket,
			"SELECT * FROM basket_items WHERE user_id = $1 ORDER BY id FOR UPDATE", userID)
		if err != nil {
			return fmt.Errorf("failed to load basket: %w", err)
		}
		if len(basket) == 0 {
			return ErrEmptyBasket
		}

		err = tx.GetContext(ctx, &order, `
			INSERT INTO orders (user_id, contact_id, status)
			VALUES ($1, $2, $3)
			RETURNING *`,
			userID, contactID, models.OrderStatusNew)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items = make([]models.OrderItem, 0, len(basket))
		for _, line := range basket {
			item := models.OrderItem{
				OrderID:       order.ID,
				ProductInfoID: line.ProductInfoID,
				Quantity:      line.Quantity,
			}
			err := tx.GetContext(ctx, &item.ID, `
				INSERT INTO order_items (order_id, product_info_id, quantity)
				VALUES ($1, $2, $3)
				RETURNING id`,
				item.OrderID, item.ProductInfoID, item.Quantity)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, item)
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM basket_items WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("failed to clear basket: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

// OrderForUser retrieves one order scoped to its owner.
func (s *Store) OrderForUser(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND user_id = $2", orderID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrdersByUserID retrieves the user's orders, newest first.
func (s *Store) OrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
	return orders, err
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	return err
}

// OrderLines retrieves an order's items joined with offer data for
// display. Prices are the current offer prices.
func (s *Store) OrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT oi.id,
		       oi.order_id,
		       oi.product_info_id,
		       p.name AS product,
		       sh.name AS shop,
		       oi.quantity,
		       pi.price
		FROM order_items oi
		JOIN product_infos pi ON pi.id = oi.product_info_id
		JOIN products p ON p.id = pi.product_id
		JOIN shops sh ON sh.id = pi.shop_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`,
		orderID)
	return lines, err
}

// OrderLinesForOrders retrieves items for many orders at once.
func (s *Store) OrderLinesForOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLine, error) {
	if len(orderIDs) == 0 {
		return map[int64][]models.OrderLine{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT oi.id,
		       oi.order_id,
		       oi.product_info_id,
		       p.name AS product,
		       sh.name AS shop,
		       oi.quantity,
		       pi.price
		FROM order_items oi
		JOIN product_infos pi ON pi.id = oi.product_info_id
		JOIN products p ON p.id = pi.product_id
		JOIN shops sh ON sh.id = pi.shop_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var lines []models.OrderLine
	if err := s.db.SelectContext(ctx, &lines, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64][]models.OrderLine)
	for _, line := range lines {
		result[line.OrderID] = append(result[line.OrderID], line)
	}
	return result, nil
}

// OrderTotal computes the order's total amount live: the sum of item
// quantity times the current offer price.
func (s *Store) OrderTotal(ctx context.Context, orderID int64) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(oi.quantity * pi.price), 0)
		FROM order_items oi
		JOIN product_infos pi ON pi.id = oi.product_info_id
		WHERE oi.order_id = $1`,
		orderID)
	return total, err
}

// PartnerOrders retrieves orders containing at least one line whose
// offer belongs to the shop, deduplicated.
func (s *Store) PartnerOrders(ctx context.Context, shopID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT DISTINCT o.*
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN product_infos pi ON pi.id = oi.product_info_id
		WHERE pi.shop_id = $1
		ORDER BY o.created_at DESC, o.id DESC`,
		shopID)
	return orders, err
}
