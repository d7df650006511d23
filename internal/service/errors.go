package service

import "errors"

var (
	// ErrInvalidCredentials is returned on login with a wrong username or
	// password. Both cases look the same to the caller on purpose.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when a bearer token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrPasswordMismatch is returned when password confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is returned when a password fails the length check.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrInvalidQuantity is returned for non-positive basket quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidStatus is returned for a status outside the fixed enumeration.
	ErrInvalidStatus = errors.New("unknown order status")
	// ErrContactRequired is returned when order placement lacks a contact id.
	ErrContactRequired = errors.New("contact is required")
	// ErrContactNotFound is returned when the supplied contact id does not
	// exist or belongs to another user.
	ErrContactNotFound = errors.New("contact not found")
	// ErrMalformedDocument is returned for catalog documents that cannot be
	// decoded or miss required fields.
	ErrMalformedDocument = errors.New("malformed catalog document")
	// ErrImportFileNotFound is returned when the import file path does not
	// resolve to a readable file.
	ErrImportFileNotFound = errors.New("import file not found")
	// ErrNoShop is returned for partner calls by users who own no shop.
	ErrNoShop = errors.New("no shop is bound to this user")
)
