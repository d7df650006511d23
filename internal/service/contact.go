package service

import (
	"context"

	"marketplace-service/internal/models"
)

// ContactStore is the data-access contract of the contact service.
type ContactStore interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	ContactsByUserID(ctx context.Context, userID int64) ([]models.Contact, error)
	ContactForUser(ctx context.Context, contactID, userID int64) (*models.Contact, error)
	UpdateContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, contactID, userID int64) error
}

// ContactService manages a user's delivery addresses.
type ContactService struct {
	store ContactStore
}

// NewContactService creates a new contact service.
func NewContactService(store ContactStore) *ContactService {
	return &ContactService{store: store}
}

// ContactRequest carries the contact form.
type ContactRequest struct {
	City    string `json:"city" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

// Create adds a delivery address for the caller.
func (s *ContactService) Create(ctx context.Context, userID int64, req ContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		UserID:  userID,
		City:    req.City,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// List returns the caller's delivery addresses.
func (s *ContactService) List(ctx context.Context, userID int64) ([]models.Contact, error) {
	return s.store.ContactsByUserID(ctx, userID)
}

// Get returns one address scoped to the caller.
func (s *ContactService) Get(ctx context.Context, contactID, userID int64) (*models.Contact, error) {
	return s.store.ContactForUser(ctx, contactID, userID)
}

// Update replaces an address scoped to the caller.
func (s *ContactService) Update(ctx context.Context, contactID, userID int64, req ContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		ID:      contactID,
		UserID:  userID,
		City:    req.City,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.store.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes an address scoped to the caller. Addresses referenced
// by orders are protected by the store.
func (s *ContactService) Delete(ctx context.Context, contactID, userID int64) error {
	return s.store.DeleteContact(ctx, contactID, userID)
}
