package store

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-service/internal/models"
)

// CreateUser inserts a new user. Username and email collisions surface
// as ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.GetContext(ctx, user, `
		INSERT INTO users (username, email, password_hash, is_staff)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		user.Username, user.Email, user.PasswordHash, user.IsStaff)
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

// UserByUsername retrieves a user by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByID retrieves a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateContact inserts a delivery address for a user.
func (s *Store) CreateContact(ctx context.Context, contact *models.Contact) error {
	return s.db.GetContext(ctx, contact, `
		INSERT INTO contacts (user_id, city, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		contact.UserID, contact.City, contact.Address, contact.Phone)
}

// ContactsByUserID lists the user's delivery addresses.
func (s *Store) ContactsByUserID(ctx context.Context, userID int64) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := s.db.SelectContext(ctx, &contacts,
		"SELECT * FROM contacts WHERE user_id = $1 ORDER BY id", userID)
	return contacts, err
}

// ContactForUser retrieves one contact scoped to its owner.
func (s *Store) ContactForUser(ctx context.Context, contactID, userID int64) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.GetContext(ctx, &contact,
		"SELECT * FROM contacts WHERE id = $1 AND user_id = $2", contactID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact updates a contact scoped to its owner.
func (s *Store) UpdateContact(ctx context.Context, contact *models.Contact) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET city = $1, address = $2, phone = $3
		WHERE id = $4 AND user_id = $5`,
		contact.City, contact.Address, contact.Phone, contact.ID, contact.UserID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact scoped to its owner. Contacts still
// referenced by orders are protected and surface as ErrRestricted.
func (s *Store) DeleteContact(ctx context.Context, contactID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = $1 AND user_id = $2", contactID, userID)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Categories still referenced by
// products are protected and surface as ErrRestricted.
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = $1", categoryID)
	if err != nil {
		return mapConstraintError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
	}
	return nil
}
