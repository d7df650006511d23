package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketplace-service/internal/models"
	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importDocument = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 110000.50
    price_rrc: 116990
    quantity: 14
`

func partnerImportRouter(catalog *service.CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, catalog, nil, nil, nil, nil, nil, nil)
	router := gin.New()
	router.POST("/partner/update/", func(c *gin.Context) {
		c.Set(contextUserKey, &models.User{ID: 1, Username: "partner"})
		c.Set(contextTokenKey, "t")
	}, h.partnerImport)
	return router
}

func TestPartnerImportStorageFailureIsBadRequest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.yaml"), []byte(importDocument), 0o644))

	// A well-formed document that the store still refuses. The caller
	// gets a 400 with the reason, never a 500.
	fake := &fakeExportStore{applyErr: errors.New("pq: deadlock detected")}
	router := partnerImportRouter(service.NewCatalogService(fake, dir))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/partner/update/",
		strings.NewReader(`{"file_path": "shop.yaml"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "deadlock")
}

func TestPartnerImportMissingFileIsBadRequest(t *testing.T) {
	fake := &fakeExportStore{}
	router := partnerImportRouter(service.NewCatalogService(fake, t.TempDir()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/partner/update/",
		strings.NewReader(`{"file_path": "nope.yaml"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
