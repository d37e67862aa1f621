package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	nf := NewNotFound(`post with id "42"`, map[string]any{"id": "42"})
	wrapped := fmt.Errorf("lookup: %w", nf)
	de := ToDomainError(wrapped)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, `post with id "42" not found`, de.Message)

	plain := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
	assert.EqualError(t, plain, "internal server error: boom")
}

func TestCodeHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("x", nil)))
	assert.True(t, IsUnauthorized(NewUnauthorized("invalid credentials")))
	assert.True(t, IsValidation(NewValidationError("bad", nil)))
	assert.True(t, IsConflict(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(errors.New("x")))
	assert.False(t, IsNotFound(NewUnauthorized("x")))
}
