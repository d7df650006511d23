package service

import (
	"context"
	"testing"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBasketStore struct {
	items   map[int64]*models.BasketItem
	offers  map[int64]bool
	nextID  int64
	deleted []int64
}

func newFakeBasketStore() *fakeBasketStore {
	return &fakeBasketStore{
		items:  map[int64]*models.BasketItem{},
		offers: map[int64]bool{11: true, 12: true},
		nextID: 1,
	}
}

func (f *fakeBasketStore) UpsertBasketItem(_ context.Context, item *models.BasketItem) error {
	for _, existing := range f.items {
		if existing.UserID == item.UserID && existing.ProductInfoID == item.ProductInfoID {
			existing.Quantity = item.Quantity
			item.ID = existing.ID
			return nil
		}
	}
	item.ID = f.nextID
	f.nextID++
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeBasketStore) BasketLines(_ context.Context, userID int64) ([]models.BasketLine, error) {
	var lines []models.BasketLine
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		price := 100.0
		lines = append(lines, models.BasketLine{
			ID:            item.ID,
			ProductInfoID: item.ProductInfoID,
			Quantity:      item.Quantity,
			Price:         price,
			Amount:        float64(item.Quantity) * price,
		})
	}
	return lines, nil
}

func (f *fakeBasketStore) DeleteBasketItem(_ context.Context, itemID, userID int64) error {
	item, ok := f.items[itemID]
	if !ok || item.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.items, itemID)
	f.deleted = append(f.deleted, itemID)
	return nil
}

func (f *fakeBasketStore) OfferExists(_ context.Context, productInfoID int64) (bool, error) {
	return f.offers[productInfoID], nil
}

func TestSetItemReplacesQuantity(t *testing.T) {
	fake := newFakeBasketStore()
	svc := NewBasketService(fake)
	ctx := context.Background()

	first, err := svc.SetItem(ctx, 1, 11, 2)
	require.NoError(t, err)

	second, err := svc.SetItem(ctx, 1, 11, 5)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, fake.items, 1)
	assert.Equal(t, 5, fake.items[first.ID].Quantity)
}

func TestSetItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewBasketService(newFakeBasketStore())

	_, err := svc.SetItem(context.Background(), 1, 11, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.SetItem(context.Background(), 1, 11, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSetItemUnknownOffer(t *testing.T) {
	svc := NewBasketService(newFakeBasketStore())

	_, err := svc.SetItem(context.Background(), 1, 999, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSumsLineAmounts(t *testing.T) {
	fake := newFakeBasketStore()
	svc := NewBasketService(fake)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, 1, 11, 2)
	require.NoError(t, err)
	_, err = svc.SetItem(ctx, 1, 12, 3)
	require.NoError(t, err)

	lines, total, err := svc.List(ctx, 1)
	require.NoError(t, err)

	assert.Len(t, lines, 2)
	assert.Equal(t, 500.0, total)
}

func TestRemoveForeignItem(t *testing.T) {
	fake := newFakeBasketStore()
	svc := NewBasketService(fake)
	ctx := context.Background()

	item, err := svc.SetItem(ctx, 1, 11, 2)
	require.NoError(t, err)

	err = svc.Remove(ctx, 2, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.Remove(ctx, 1, item.ID))
	assert.Empty(t, fake.items)
}
