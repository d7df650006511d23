package api

import (
	"fmt"
	"net/http"
	"testing"

	"marketplace-service/internal/service"
	"marketplace-service/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", bearerToken("Token abc123"))
	assert.Equal(t, "abc123", bearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", bearerToken("token abc123"))

	assert.Empty(t, bearerToken(""))
	assert.Empty(t, bearerToken("abc123"))
	assert.Empty(t, bearerToken("Basic dXNlcjpwYXNz"))
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrNoShop, http.StatusForbidden},
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrDuplicate, http.StatusConflict},
		{store.ErrRestricted, http.StatusConflict},
		// A missing or foreign contact on order placement is a
		// validation failure, not a lookup failure.
		{service.ErrContactNotFound, http.StatusBadRequest},
		{service.ErrPasswordTooShort, http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{service.ErrInvalidStatus, http.StatusBadRequest},
		{service.ErrMalformedDocument, http.StatusBadRequest},
		{service.ErrImportFileNotFound, http.StatusBadRequest},
		{store.ErrEmptyBasket, http.StatusBadRequest},
		{store.ErrUnknownCategory, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, errorStatus(tt.err), tt.err.Error())
		// Wrapped errors map the same way.
		assert.Equal(t, tt.status, errorStatus(fmt.Errorf("context: %w", tt.err)))
	}
}
