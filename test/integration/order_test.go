//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderBody(bookID uint, quantity int) map[string]any {
	return map[string]any{
		"orderItems": []map[string]any{{"book": bookID, "quantity": quantity}},
		"shippingAddress": map[string]string{
			"fullName": "Nguyen Van A",
			"address":  "12 Le Loi",
			"city":     "Ha Noi",
			"phone":    "0912345678",
		},
		"paymentMethod": "COD",
	}
}

// TestOrderLifecycle 下单 → 管理员发货 → 确认收货 → 评价
func TestOrderLifecycle(t *testing.T) {
	admin := Login(t, adminEmail, adminPassword)
	buyer := RegisterTestUser(t, "buyer")
	b := PublishTestBook(t, admin.AccessToken, fmt.Sprintf("Lifecycle %d", time.Now().UnixNano()), 100000, 5)

	key := fmt.Sprintf("it-%d", time.Now().UnixNano())
	resp := DoJSON(t, http.MethodPost, "/api/orders", orderBody(b.ID, 2), buyer.AccessToken, "Idempotency-Key", key)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	var o OrderData
	resp.Decode(t, &o)
	assert.Equal(t, 1, o.Status)

	// 相同幂等键重放
	resp = DoJSON(t, http.MethodPost, "/api/orders", orderBody(b.ID, 2), buyer.AccessToken, "Idempotency-Key", key)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	var replay OrderData
	resp.Decode(t, &replay)
	assert.Equal(t, o.ID, replay.ID)

	path := fmt.Sprintf("/api/orders/%d", o.ID)
	for _, st := range []int{2, 3, 4} {
		resp = DoJSON(t, http.MethodPut, path+"/status", map[string]int{"status": st}, admin.AccessToken)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	}

	resp = DoJSON(t, http.MethodPut, path+"/received", nil, buyer.AccessToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	resp.Decode(t, &o)
	assert.Equal(t, 5, o.Status)

	reviewPath := fmt.Sprintf("/api/books/%d/reviews", b.ID)
	resp = DoJSON(t, http.MethodPost, reviewPath, map[string]any{"rating": 5, "comment": "集成测试"}, buyer.AccessToken)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	resp = DoJSON(t, http.MethodPost, reviewPath, map[string]any{"rating": 4, "comment": "重复"}, buyer.AccessToken)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

// TestConcurrentOrders 并发抢购不超卖
func TestConcurrentOrders(t *testing.T) {
	admin := Login(t, adminEmail, adminPassword)
	const stock, buyers = 3, 10
	b := PublishTestBook(t, admin.AccessToken, fmt.Sprintf("Flash %d", time.Now().UnixNano()), 50000, stock)

	tokens := make([]string, buyers)
	for i := range tokens {
		tokens[i] = RegisterTestUser(t, fmt.Sprintf("flash%d", i)).AccessToken
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			resp := DoJSON(t, http.MethodPost, "/api/orders", orderBody(b.ID, 1), token)
			if resp.Status == http.StatusCreated {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, stock, success)

	resp := DoJSON(t, http.MethodGet, fmt.Sprintf("/api/books/%d", b.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	var after BookData
	resp.Decode(t, &after)
	assert.Equal(t, 0, after.Stock)
}

// TestCancelRestoresStock 取消订单回补库存
func TestCancelRestoresStock(t *testing.T) {
	admin := Login(t, adminEmail, adminPassword)
	buyer := RegisterTestUser(t, "cancel")
	b := PublishTestBook(t, admin.AccessToken, fmt.Sprintf("Cancel %d", time.Now().UnixNano()), 80000, 4)

	resp := DoJSON(t, http.MethodPost, "/api/orders", orderBody(b.ID, 4), buyer.AccessToken)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	var o OrderData
	resp.Decode(t, &o)

	resp = DoJSON(t, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", o.ID), map[string]string{"reason": "测试取消"}, buyer.AccessToken)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	resp.Decode(t, &o)
	assert.Equal(t, 6, o.Status)

	resp = DoJSON(t, http.MethodGet, fmt.Sprintf("/api/books/%d", b.ID), nil, "")
	var after BookData
	resp.Decode(t, &after)
	assert.Equal(t, 4, after.Stock)
}
