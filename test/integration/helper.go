//go:build integration

// Package integration 针对运行中服务的端到端测试
//
// 运行前需要启动MySQL、Redis、MongoDB和API服务，并配置管理员账号：
//
//	BOOKSTORE_ADMIN_EMAIL=admin@test.com BOOKSTORE_ADMIN_PASSWORD=admin123 go run ./cmd/api
//	go test -tags=integration ./test/integration/...
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// 最小的PNG文件头
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var (
	baseURL       = env("BOOKMALL_BASE_URL", "http://localhost:8080")
	redisAddr     = env("BOOKMALL_REDIS_ADDR", "localhost:6379")
	adminEmail    = env("BOOKSTORE_ADMIN_EMAIL", "admin@test.com")
	adminPassword = env("BOOKSTORE_ADMIN_PASSWORD", "admin123")
)

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode 解析data字段
func (r *Response) Decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dest), string(r.Data))
}

// AuthData 登录响应
type AuthData struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BookData 图书
type BookData struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// OrderData 订单
type OrderData struct {
	ID         uint   `json:"id"`
	OrderNo    string `json:"orderNo"`
	TotalPrice int64  `json:"totalPrice"`
	Status     int    `json:"status"`
}

func send(t *testing.T, req *http.Request, token string) *Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(body, &result), "解析JSON响应失败: %s", string(body))
	return &result
}

// DoJSON 发送JSON请求
func DoJSON(t *testing.T, method, path string, data any, token string, headers ...string) *Response {
	t.Helper()
	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return send(t, req, token)
}

// UniqueEmail 生成唯一的测试邮箱
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// readOTP 直接从Redis读取注册验证码
func readOTP(t *testing.T, email string) string {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	defer client.Close()

	code, err := client.HGet(context.Background(), "bookmall:otp:register:"+email, "code").Result()
	require.NoError(t, err, "读取验证码失败")
	return code
}

// Login 登录
func Login(t *testing.T, email, password string) AuthData {
	t.Helper()
	resp := DoJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.Status, "登录失败: %s", resp.Message)

	var data AuthData
	resp.Decode(t, &data)
	return data
}

// RegisterTestUser 验证码注册并登录
func RegisterTestUser(t *testing.T, prefix string) AuthData {
	t.Helper()
	email := UniqueEmail(prefix)

	resp := DoJSON(t, http.MethodPost, "/api/auth/request-otp", map[string]string{"email": email}, "")
	require.Equal(t, http.StatusOK, resp.Status, "发送验证码失败: %s", resp.Message)

	resp = DoJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":           email,
		"password":        "Test1234",
		"confirmPassword": "Test1234",
		"name":            "Tester",
		"username":        fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano()%1_000_000_000),
		"otp":             readOTP(t, email),
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "注册失败: %s", resp.Message)

	return Login(t, email, "Test1234")
}

// PublishTestBook 管理员上架测试图书
func PublishTestBook(t *testing.T, adminToken, title string, price int64, stock int) BookData {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":        title,
		"author":       "测试作者",
		"description":  "集成测试用图书",
		"category":     "Integration",
		"price":        fmt.Sprint(price),
		"countInStock": fmt.Sprint(stock),
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/books", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp := send(t, req, adminToken)
	require.Equal(t, http.StatusCreated, resp.Status, "图书上架失败: %s", resp.Message)

	var b BookData
	resp.Decode(t, &b)
	return b
}
