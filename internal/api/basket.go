package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listBasket handles the caller's basket listing with its live total
func (h *Handler) listBasket(c *gin.Context) {
	lines, total, err := h.basket.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        lines,
		"total_amount": total,
	})
}

type basketItemRequest struct {
	ProductInfoID int64 `json:"product_info_id" binding:"required"`
	Quantity      int   `json:"quantity" binding:"required"`
}

// setBasketItem handles basket upsert: posting an offer already in the
// basket replaces its quantity.
func (h *Handler) setBasketItem(c *gin.Context) {
	var req basketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item, err := h.basket.SetItem(c.Request.Context(), currentUser(c).ID, req.ProductInfoID, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

type basketDeleteRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// removeBasketItem handles basket line removal; the line id travels in
// the request body.
func (h *Handler) removeBasketItem(c *gin.Context) {
	var req basketDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.basket.Remove(c.Request.Context(), currentUser(c).ID, req.ID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
