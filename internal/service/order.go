package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// OrderStore is the data-access contract of the order service.
type OrderStore interface {
	// PlaceOrder converts the user's basket into an order atomically.
	PlaceOrder(ctx context.Context, userID, contactID int64) (*models.Order, []models.OrderItem, error)
	OrderForUser(ctx context.Context, orderID, userID int64) (*models.Order, error)
	OrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
	OrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	OrderLinesForOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLine, error)
	OrderTotal(ctx context.Context, orderID int64) (float64, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// OrderService places orders and manages their lifecycle.
type OrderService struct {
	store      OrderStore
	tasks      TaskPublisher
	adminEmail string
	logger     *zap.Logger
}

// NewOrderService creates a new order service. adminEmail receives a
// notification for every placed order.
func NewOrderService(store OrderStore, tasks TaskPublisher, adminEmail string) *OrderService {
	return &OrderService{
		store:      store,
		tasks:      tasks,
		adminEmail: adminEmail,
		logger:     util.GetLogger(),
	}
}

// Place converts the caller's basket into an order delivered to the
// given contact. On success two notification emails are enqueued, one to
// the customer and one to the admin; neither can fail the order.
func (s *OrderService) Place(ctx context.Context, userID, contactID int64) (*models.Order, error) {
	ctx, span := util.StartOrderSpan(ctx, userID)
	defer span.End()

	order, items, err := s.store.PlaceOrder(ctx, userID, contactID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyBasket):
			util.OrdersFailedTotal.WithLabelValues("empty_basket").Inc()
		case errors.Is(err, store.ErrNotFound):
			util.OrdersFailedTotal.WithLabelValues("bad_contact").Inc()
			return nil, fmt.Errorf("%w: %d", ErrContactNotFound, contactID)
		default:
			util.OrdersFailedTotal.WithLabelValues("internal").Inc()
		}
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int("items", len(items)))

	total, err := s.store.OrderTotal(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to compute order total for notification",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	if user, err := s.store.UserByID(ctx, userID); err == nil {
		s.enqueueEmail(ctx,
			fmt.Sprintf("Order #%d accepted", order.ID),
			fmt.Sprintf("Your order #%d has been accepted and is being processed. Order total: %.2f.", order.ID, total),
			[]string{user.Email})
	} else {
		s.logger.Error("Failed to load order owner for notification",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
	s.enqueueEmail(ctx,
		fmt.Sprintf("New order #%d", order.ID),
		fmt.Sprintf("Order #%d has been placed by user %d. Order total: %.2f.", order.ID, userID, total),
		[]string{s.adminEmail})

	return order, nil
}

// ListForUser returns the caller's orders with their lines and
// live-computed totals, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]models.OrderView, error) {
	orders, err := s.store.OrdersByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderIDs := lo.Map(orders, func(o models.Order, _ int) int64 { return o.ID })
	linesByOrder, err := s.store.OrderLinesForOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, buildOrderView(order, linesByOrder[order.ID]))
	}
	return views, nil
}

// GetForUser returns one of the caller's orders with lines and total.
func (s *OrderService) GetForUser(ctx context.Context, orderID, userID int64) (*models.OrderView, error) {
	order, err := s.store.OrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.OrderLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	view := buildOrderView(*order, lines)
	return &view, nil
}

// UpdateStatus moves the caller's order to a new status. Setting the
// status it already has is a no-op and enqueues nothing; an actual
// change enqueues exactly one notification email to the order's owner.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, userID int64, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.store.OrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.store.UpdateOrderStatus(ctx, order.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	util.OrderStatusChangesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status changed",
		zap.Int64("order_id", order.ID), zap.String("status", status))

	total, err := s.store.OrderTotal(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to compute order total",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	if user, err := s.store.UserByID(ctx, order.UserID); err == nil {
		s.enqueueEmail(ctx,
			fmt.Sprintf("Order #%d status update", order.ID),
			fmt.Sprintf("Your order #%d is now %s. Order total: %.2f.", order.ID, status, total),
			[]string{user.Email})
	} else {
		s.logger.Error("Failed to load order owner for notification",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

func (s *OrderService) enqueueEmail(ctx context.Context, subject, body string, recipients []string) {
	if err := s.tasks.PublishEmail(ctx, subject, body, recipients); err != nil {
		s.logger.Error("Failed to enqueue email", zap.String("subject", subject), zap.Error(err))
		return
	}
	util.EmailsEnqueuedTotal.Inc()
}

func buildOrderView(order models.Order, lines []models.OrderLine) models.OrderView {
	if lines == nil {
		lines = []models.OrderLine{}
	}
	return models.OrderView{
		ID:        order.ID,
		Status:    order.Status,
		ContactID: order.ContactID,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Items:     lines,
		TotalAmount: lo.SumBy(lines, func(line models.OrderLine) float64 {
			return float64(line.Quantity) * line.Price
		}),
	}
}
