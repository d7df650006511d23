package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"

	"github.com/samber/lo"
)

// PartnerStore is the data-access contract of the partner service.
type PartnerStore interface {
	ShopByUserID(ctx context.Context, userID int64) (*models.Shop, error)
	SetShopActive(ctx context.Context, shopID int64, active bool) error
	PartnerOrders(ctx context.Context, shopID int64) ([]models.Order, error)
	OrderLinesForOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLine, error)
}

// PartnerService serves the vendor-facing shop surface.
type PartnerService struct {
	store PartnerStore
}

// NewPartnerService creates a new partner service.
func NewPartnerService(store PartnerStore) *PartnerService {
	return &PartnerService{store: store}
}

// Shop returns the caller's shop or ErrNoShop when none is bound.
func (s *PartnerService) Shop(ctx context.Context, userID int64) (*models.Shop, error) {
	shop, err := s.store.ShopByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoShop
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}

// SetState toggles whether the caller's shop accepts orders.
func (s *PartnerService) SetState(ctx context.Context, userID int64, active bool) (*models.Shop, error) {
	shop, err := s.Shop(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetShopActive(ctx, shop.ID, active); err != nil {
		return nil, fmt.Errorf("failed to update shop state: %w", err)
	}
	shop.IsActive = active
	return shop, nil
}

// Orders returns the orders containing at least one of the caller's
// shop's offers. Totals cover the whole order, not just the shop's
// share, so a partner sees the order as the customer placed it.
func (s *PartnerService) Orders(ctx context.Context, userID int64) ([]models.OrderView, error) {
	shop, err := s.Shop(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.PartnerOrders(ctx, shop.ID)
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
