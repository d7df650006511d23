package api

import (
	"net/http"
	"strconv"

	"marketplace-service/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listProducts handles the filtered product listing
func (h *Handler) listProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Name:         c.Query("name"),
		CategoryName: c.Query("category"),
		Ordering:     c.Query("ordering"),
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid category_id"})
			return
		}
		filter.CategoryID = id
	}
	if v := c.Query("shop_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid shop_id"})
			return
		}
		filter.ShopID = id
	}
	if v := c.Query("price_min"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid price_min"})
			return
		}
		filter.PriceMin = &min
	}
	if v := c.Query("price_max"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid price_max"})
			return
		}
		filter.PriceMax = &max
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": pageSize,
		"results":   products,
	})
}

// getProduct handles a single product lookup. The "export" segment is
// dispatched here because it shares the path position with product ids.
func (h *Handler) getProduct(c *gin.Context) {
	idStr := c.Param("id")
	if idStr == "export" {
		h.exportCatalog(c)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid product ID"})
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// exportCatalog serves the first active shop's catalog in the import
// document shape. Authentication is checked here rather than in
// middleware because the route is dispatched from the public product
// detail path.
func (h *Handler) exportCatalog(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"detail": "Authentication credentials were not provided",
		})
		return
	}
	if _, err := h.users.Authenticate(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
		return
	}

	doc, err := h.catalog.Export(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
