package api

import (
	"net/http"

	"marketplace-service/internal/models"

	"github.com/gin-gonic/gin"
)

// partnerState handles the caller's shop state lookup
func (h *Handler) partnerState(c *gin.Context) {
	shop, err := h.partner.Shop(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

type partnerStateRequest struct {
	State *bool `json:"state" binding:"required"`
}

// setPartnerState handles the shop activity toggle
func (h *Handler) setPartnerState(c *gin.Context) {
	var req partnerStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	shop, err := h.partner.SetState(c.Request.Context(), currentUser(c).ID, *req.State)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

// partnerOrders handles the listing of orders touching the caller's shop
func (h *Handler) partnerOrders(c *gin.Context) {
	orders, err := h.partner.Orders(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type importRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// partnerImport handles a synchronous catalog import on behalf of the
// caller. The resulting shop is bound to the caller if unowned.
func (h *Handler) partnerImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	shop, err := h.catalog.ImportForUser(c.Request.Context(), req.FilePath, currentUser(c).ID)
	if err != nil {
		// Every import failure is the document's fault from the caller's
		// point of view, including constraint and storage errors.
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shop)
}

// adminImport enqueues an asynchronous catalog import and returns the
// queued task id immediately.
func (h *Handler) adminImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	taskID, err := h.importer.PublishImport(c.Request.Context(), req.FilePath)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"status":  models.ImportTaskQueued,
	})
}
