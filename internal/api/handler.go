package api

import (
	"errors"
	"net/http"
	"time"

	"marketplace-service/internal/service"
	"marketplace-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	products *service.ProductService
	catalog  *service.CatalogService
	users    *service.UserService
	contacts *service.ContactService
	basket   *service.BasketService
	orders   *service.OrderService
	partner  *service.PartnerService
	importer service.ImportPublisher
}

// NewHandler creates a new HTTP handler
func NewHandler(
	products *service.ProductService,
	catalog *service.CatalogService,
	users *service.UserService,
	contacts *service.ContactService,
	basket *service.BasketService,
	orders *service.OrderService,
	partner *service.PartnerService,
	importer service.ImportPublisher,
) *Handler {
	return &Handler{
		products: products,
		catalog:  catalog,
		users:    users,
		contacts: contacts,
		basket:   basket,
		orders:   orders,
		partner:  partner,
		importer: importer,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := authRequired(h.users)

	router.GET("/products/", h.listProducts)
	// /products/export/ is served from getProduct: the router cannot
	// hold a static "export" segment next to the :id wildcard.
	router.GET("/products/:id/", h.getProduct)

	router.POST("/users/register/", h.register)
	router.POST("/users/login/", h.login)
	router.POST("/users/logout/", auth, h.logout)

	contacts := router.Group("/contacts", auth)
	{
		contacts.GET("/", h.listContacts)
		contacts.POST("/", h.createContact)
		contacts.GET("/:id/", h.getContact)
		contacts.PUT("/:id/", h.updateContact)
		contacts.DELETE("/:id/", h.deleteContact)
	}

	basket := router.Group("/basket", auth)
	{
		basket.GET("/", h.listBasket)
		basket.POST("/", h.setBasketItem)
		basket.DELETE("/", h.removeBasketItem)
	}

	orders := router.Group("/orders", auth)
	{
		orders.GET("/", h.listOrders)
		orders.POST("/", h.placeOrder)
		orders.GET("/:id/", h.getOrder)
		orders.PATCH("/:id/", h.updateOrderStatus)
	}

	partner := router.Group("/partner", auth)
	{
		partner.GET("/state/", h.partnerState)
		partner.POST("/state/", h.setPartnerState)
		partner.GET("/orders/", h.partnerOrders)
		partner.POST("/import/", h.partnerImport)
	}

	admin := router.Group("/admin", auth, adminRequired())
	{
		admin.POST("/do-import/", h.adminImport)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// fail writes the JSON error body for err with the status its kind maps
// to.
func fail(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"detail": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNoShop):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrRestricted):
		return http.StatusConflict
	case errors.Is(err, service.ErrContactNotFound),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrContactRequired),
		errors.Is(err, service.ErrMalformedDocument),
		errors.Is(err, service.ErrImportFileNotFound),
		errors.Is(err, store.ErrEmptyBasket),
		errors.Is(err, store.ErrUnknownCategory):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
