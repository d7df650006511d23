package api

import (
	"net/http"
	"strconv"

	"marketplace-service/internal/service"

	"github.com/gin-gonic/gin"
)

// register handles user registration
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login handles credential exchange for a bearer token
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// logout revokes the caller's bearer token
func (h *Handler) logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), currentToken(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listContacts handles the caller's contact listing
func (h *Handler) listContacts(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// createContact handles contact creation
func (h *Handler) createContact(c *gin.Context) {
	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// getContact handles a single contact lookup
func (h *Handler) getContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// updateContact handles full contact replacement
func (h *Handler) updateContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), id, currentUser(c).ID, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// deleteContact handles contact deletion. A contact referenced by an
// order is protected and reported as a conflict.
func (h *Handler) deleteContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id, currentUser(c).ID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pathID parses the :id path segment, writing the error response itself
// on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid ID"})
		return 0, false
	}
	return id, true
}
