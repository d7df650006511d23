package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogStore struct {
	applied    []models.ImportPlan
	shop       models.Shop
	applyErr   error
	active     *models.Shop
	categories []models.Category
	offers     []models.ExportOffer
	bound      map[int64]int64
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		shop:  models.Shop{ID: 1, Name: "Svyaznoy", IsActive: true},
		bound: map[int64]int64{},
	}
}

func (f *fakeCatalogStore) ApplyImport(_ context.Context, plan models.ImportPlan) (*models.Shop, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.applied = append(f.applied, plan)
	shop := f.shop
	return &shop, nil
}

func (f *fakeCatalogStore) FirstActiveShop(context.Context) (*models.Shop, error) {
	if f.active == nil {
		return nil, store.ErrNotFound
	}
	shop := *f.active
	return &shop, nil
}

func (f *fakeCatalogStore) ShopCategories(context.Context, int64) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogStore) ShopExportOffers(context.Context, int64) ([]models.ExportOffer, error) {
	return f.offers, nil
}

func (f *fakeCatalogStore) BindShopUser(_ context.Context, shopID, userID int64) error {
	f.bound[shopID] = userID
	return nil
}

func writeImportFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := writeImportFile(t, dir, "shop.yaml", sampleDocument)

	fake := newFakeCatalogStore()
	svc := NewCatalogService(fake, dir)

	shop, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", shop.Name)
	require.Len(t, fake.applied, 1)
	assert.Len(t, fake.applied[0].Offers, 1)
}

func TestImportFileMissing(t *testing.T) {
	fake := newFakeCatalogStore()
	svc := NewCatalogService(fake, t.TempDir())

	_, err := svc.ImportFile(context.Background(), svc.ImportPath("absent.yaml"))
	assert.ErrorIs(t, err, ErrImportFileNotFound)
	assert.Empty(t, fake.applied)
}

func TestImportFileMalformedTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeImportFile(t, dir, "broken.yaml", "goods:\n  - id: 1\n")

	fake := newFakeCatalogStore()
	svc := NewCatalogService(fake, dir)

	_, err := svc.ImportFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Empty(t, fake.applied)
}

func TestImportPathStaysInBaseDir(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogStore(), "/srv/imports")

	path := svc.ImportPath("../../etc/passwd")
	assert.True(t, strings.HasPrefix(path, "/srv/imports/"), path)
}

func TestImportForUserBindsUnownedShop(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, "shop.yaml", sampleDocument)

	fake := newFakeCatalogStore()
	svc := NewCatalogService(fake, dir)

	shop, err := svc.ImportForUser(context.Background(), "shop.yaml", 42)
	require.NoError(t, err)

	require.NotNil(t, shop.UserID)
	assert.EqualValues(t, 42, *shop.UserID)
	assert.EqualValues(t, 42, fake.bound[shop.ID])
}

func TestImportForUserKeepsExistingOwner(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, "shop.yaml", sampleDocument)

	owner := int64(7)
	fake := newFakeCatalogStore()
	fake.shop.UserID = &owner
	svc := NewCatalogService(fake, dir)

	shop, err := svc.ImportForUser(context.Background(), "shop.yaml", 42)
	require.NoError(t, err)

	require.NotNil(t, shop.UserID)
	assert.EqualValues(t, 7, *shop.UserID)
	assert.Empty(t, fake.bound)
}

func TestExportFallsBackToInternalIDs(t *testing.T) {
	external := "224"
	fake := newFakeCatalogStore()
	fake.active = &models.Shop{ID: 1, Name: "Svyaznoy", IsActive: true}
	fake.categories = []models.Category{
		{ID: 10, Name: "Smartphones", ExternalID: &external},
		{ID: 11, Name: "Legacy"},
	}
	fake.offers = []models.ExportOffer{
		{
			OfferID:            5,
			ProductName:        "Phone",
			CategoryExternalID: &external,
			CategoryID:         10,
			Quantity:           3,
			Price:              100,
			PriceRRC:           120,
			Parameters:         map[string]string{"Color": "gold"},
		},
	}

	svc := NewCatalogService(fake, t.TempDir())

	doc, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", doc.Shop)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, ScalarString("224"), doc.Categories[0].ID)
	// No external id recorded, the internal id serves as the document id.
	assert.Equal(t, ScalarString("11"), doc.Categories[1].ID)

	require.Len(t, doc.Goods, 1)
	assert.Equal(t, ScalarString("5"), doc.Goods[0].ID)
	assert.Equal(t, ScalarString("224"), doc.Goods[0].Category)
	assert.Equal(t, ScalarString("gold"), doc.Goods[0].Parameters["Color"])
}

func TestExportWithoutActiveShop(t *testing.T) {
	svc := NewCatalogService(newFakeCatalogStore(), t.TempDir())

	_, err := svc.Export(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
