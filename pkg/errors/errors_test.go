package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(0))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeAlreadyReviewed))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidParams))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrCodeTokenExpired))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrCodeForbidden))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeOrderNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeDatabaseError))
}

func TestGetAppError(t *testing.T) {
	t.Run("包装后的AppError可被提取", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", ErrBookNotFound)
		appErr := GetAppError(err)
		assert.Equal(t, ErrCodeBookNotFound, appErr.Code)
	})

	t.Run("普通错误转为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.EqualError(t, appErr.Err, "boom")
	})
}

func TestAppError_Is(t *testing.T) {
	derived := &AppError{Code: ErrCodeForbidden, Message: ErrForbidden.Message}
	assert.ErrorIs(t, derived, ErrForbidden)
	assert.NotErrorIs(t, derived, ErrUnauthorized)

	wrapped := &AppError{Code: ErrCodeInternal, Message: "查询失败", Err: ErrBookNotFound}
	assert.ErrorIs(t, wrapped, ErrBookNotFound)
	assert.True(t, HasCode(wrapped, ErrCodeInternal))
}
