// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stockify/internal/platform/apperr"
)

/*
TestAppError_Chain verifies that AppErrors survive wrapping and keep their cause.
*/
func TestAppError_Chain(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("role_delete_failed: %w", apperr.Internal(cause))

	found := apperr.As(err)
	assert.NotNil(t, found)
	assert.Equal(t, http.StatusInternalServerError, found.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, found.Error(), "connection reset")

	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.False(t, apperr.HasCode(cause, apperr.CodeInternal))
	assert.Nil(t, apperr.As(cause))
}

/*
TestAppError_WithDetails ensures details are copied rather than shared.
*/
func TestAppError_WithDetails(t *testing.T) {
	base := apperr.Conflict("Cannot delete role")
	detailed := base.WithDetails(apperr.FieldError{Field: "users", Message: "3"})

	assert.Empty(t, base.Details)
	assert.Len(t, detailed.Details, 1)
	assert.Equal(t, http.StatusConflict, detailed.HTTPStatus)
}
