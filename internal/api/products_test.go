package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-service/internal/models"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) UserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

type fakeTokenStore struct {
	tokens map[string]int64
}

func (f *fakeTokenStore) SaveToken(_ context.Context, token string, userID int64, _ time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) UserIDByToken(_ context.Context, token string) (int64, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, store.ErrNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) DeleteToken(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishEmail(context.Context, string, string, []string) error { return nil }

type fakeExportStore struct {
	shop       *models.Shop
	categories []models.Category
	offers     []models.ExportOffer
	applyErr   error
}

func (f *fakeExportStore) ApplyImport(_ context.Context, plan models.ImportPlan) (*models.Shop, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &models.Shop{ID: 1, Name: plan.ShopName}, nil
}

func (f *fakeExportStore) FirstActiveShop(_ context.Context) (*models.Shop, error) {
	if f.shop == nil {
		return nil, store.ErrNotFound
	}
	return f.shop, nil
}

func (f *fakeExportStore) ShopCategories(_ context.Context, _ int64) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeExportStore) ShopExportOffers(_ context.Context, _ int64) ([]models.ExportOffer, error) {
	return f.offers, nil
}

func (f *fakeExportStore) BindShopUser(_ context.Context, _, _ int64) error { return nil }

func authedUsers(t *testing.T, token string) *service.UserService {
	t.Helper()
	users := &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, Username: "buyer", Email: "buyer@example.com"},
	}}
	tokens := &fakeTokenStore{tokens: map[string]int64{}}
	if token != "" {
		tokens.tokens[token] = 1
	}
	return service.NewUserService(users, tokens, nopPublisher{}, time.Hour)
}

func exportRouter(catalog *service.CatalogService, users *service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, catalog, users, nil, nil, nil, nil, nil)
	router := gin.New()
	router.GET("/products/:id/", h.getProduct)
	return router
}

func TestExportRequiresToken(t *testing.T) {
	catalog := service.NewCatalogService(&fakeExportStore{}, t.TempDir())
	router := exportRouter(catalog, authedUsers(t, ""))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/export/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication credentials were not provided")
}

func TestExportRejectsUnknownToken(t *testing.T) {
	catalog := service.NewCatalogService(&fakeExportStore{}, t.TempDir())
	router := exportRouter(catalog, authedUsers(t, "good-token"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/export/", nil)
	req.Header.Set("Authorization", "Token wrong-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportServesJSON(t *testing.T) {
	external := "224"
	fake := &fakeExportStore{
		shop: &models.Shop{ID: 7, Name: "Svyaznoy", IsActive: true},
		categories: []models.Category{
			{ID: 3, Name: "Smartphones", ExternalID: &external},
		},
		offers: []models.ExportOffer{{
			OfferExternalID:    "4216292",
			OfferID:            9,
			ProductName:        "Smartphone",
			CategoryExternalID: &external,
			CategoryID:         3,
			Model:              "apple/iphone/xs-max",
			Quantity:           14,
			Price:              110000.50,
			PriceRRC:           116990,
			Parameters:         map[string]string{"Color": "gold"},
		}},
	}
	catalog := service.NewCatalogService(fake, t.TempDir())
	router := exportRouter(catalog, authedUsers(t, "good-token"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/export/", nil)
	req.Header.Set("Authorization", "Token good-token")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var doc service.CatalogDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Svyaznoy", doc.Shop)
	require.Len(t, doc.Goods, 1)
	assert.Equal(t, service.ScalarString("4216292"), doc.Goods[0].ID)
}
