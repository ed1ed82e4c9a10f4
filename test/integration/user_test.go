//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAuthFlow 注册、刷新、登出后Token失效
func TestAuthFlow(t *testing.T) {
	auth := RegisterTestUser(t, "auth")

	resp := DoJSON(t, http.MethodGet, "/api/auth/profile", nil, auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	resp = DoJSON(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": auth.RefreshToken}, "")
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	resp = DoJSON(t, http.MethodPost, "/api/auth/logout", nil, auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	resp = DoJSON(t, http.MethodGet, "/api/auth/profile", nil, auth.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, 40102, resp.Code)
}

// TestLoginFailures 登录失败场景
func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]string
		expected int
	}{
		{"密码错误", map[string]string{"email": adminEmail, "password": "wrong-password"}, http.StatusUnauthorized},
		{"邮箱格式错误", map[string]string{"email": "not-an-email", "password": "whatever"}, http.StatusBadRequest},
		{"缺少密码", map[string]string{"email": adminEmail}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := DoJSON(t, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.expected, resp.Status, resp.Message)
		})
	}
}
