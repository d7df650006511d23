package service

import (
	"context"
	"fmt"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"

	"github.com/samber/lo"
)

// BasketStore is the data-access contract of the basket service.
type BasketStore interface {
	UpsertBasketItem(ctx context.Context, item *models.BasketItem) error
	BasketLines(ctx context.Context, userID int64) ([]models.BasketLine, error)
	DeleteBasketItem(ctx context.Context, itemID, userID int64) error
	OfferExists(ctx context.Context, productInfoID int64) (bool, error)
}

// BasketService manages per-user draft baskets.
type BasketService struct {
	store BasketStore
}

// NewBasketService creates a new basket service.
func NewBasketService(store BasketStore) *BasketService {
	return &BasketService{store: store}
}

// SetItem sets the desired quantity of one offer in the caller's basket.
// A quantity for an offer already present replaces the stored one.
func (s *BasketService) SetItem(ctx context.Context, userID, productInfoID int64, quantity int) (*models.BasketItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	exists, err := s.store.OfferExists(ctx, productInfoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check offer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: offer %d", store.ErrNotFound, productInfoID)
	}

	item := &models.BasketItem{
		UserID:        userID,
		ProductInfoID: productInfoID,
		Quantity:      quantity,
	}
	if err := s.store.UpsertBasketItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the caller's basket lines and their live-computed total.
func (s *BasketService) List(ctx context.Context, userID int64) ([]models.BasketLine, float64, error) {
	lines, err := s.store.BasketLines(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	total := lo.SumBy(lines, func(line models.BasketLine) float64 { return line.Amount })
	return lines, total, nil
}

// Remove deletes one basket line scoped to the caller.
func (s *BasketService) Remove(ctx context.Context, userID, itemID int64) error {
	return s.store.DeleteBasketItem(ctx, itemID, userID)
}
