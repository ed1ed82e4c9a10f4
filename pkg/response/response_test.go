package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)
	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"库存不足返回400", apperrors.ErrInsufficientStock, http.StatusBadRequest},
		{"参数错误返回400", apperrors.ErrInvalidParams, http.StatusBadRequest},
		{"未登录返回401", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"Token过期返回401", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"越权返回403", apperrors.ErrForbidden, http.StatusForbidden},
		{"资源不存在返回404", apperrors.ErrBookNotFound, http.StatusNotFound},
		{"未知错误返回500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, resp := perform(t, func(c *gin.Context) { Error(c, tc.err) })
			assert.Equal(t, tc.status, w.Code)
			assert.NotEmpty(t, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	_, resp := perform(t, func(c *gin.Context) {
		Error(c, apperrors.Wrap(errors.New("dial tcp 10.0.0.1:3306: refused"), "查询图书失败"))
	})

	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.Equal(t, "查询图书失败", resp.Message)
}

func TestSuccessWithPage(t *testing.T) {
	w, resp := perform(t, func(c *gin.Context) {
		SuccessWithPage(c, []int{1, 2, 3}, 25, 2, 12)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 25, data["total"])
	assert.EqualValues(t, 3, data["totalPages"])
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 0, TotalPages(10, 0))
}
