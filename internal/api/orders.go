package api

import (
	"net/http"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listOrders handles the caller's order listing
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type placeOrderRequest struct {
	Contact int64 `json:"contact"`
}

// placeOrder handles basket-to-order conversion
func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Contact == 0 {
		fail(c, service.ErrContactRequired)
		return
	}

	order, err := h.orders.Place(c.Request.Context(), currentUser(c).ID, req.Contact)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// getOrder handles a single order lookup with lines and total
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetForUser(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus handles order status transitions
func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, currentUser(c).ID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
