package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookmall/internal/domain/book"
	"github.com/xiebiao/bookmall/internal/domain/order"
	"github.com/xiebiao/bookmall/internal/domain/user"
)

func TestOrderModelRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &order.Order{
		ID:      3,
		OrderNo: "BM1",
		UserID:  7,
		Items: []order.OrderItem{
			{ID: 1, OrderID: 3, BookID: 10, Title: "A", Image: "/a.png", Quantity: 2, Price: 1000},
		},
		ShippingAddress: order.ShippingAddress{FullName: "张三", Address: "1 Road", City: "HCM", Phone: "0901234567"},
		PaymentMethod:   order.PaymentMethodCOD,
		ItemsPrice:      2000,
		ShippingPrice:   300,
		TotalPrice:      2300,
		Status:          order.OrderStatusShipping,
		ConfirmedAt:     &now,
		CancelRequested: true,
		CancelReason:    "不想要了",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	model := toOrderModel(o)
	assert.Equal(t, 4, model.Status)
	assert.Equal(t, "HCM", model.Shipping.City)

	assert.Equal(t, o, toOrderEntity(model))
}

func TestUserModel_GoogleIDNullable(t *testing.T) {
	u := &user.User{ID: 1, Email: "a@example.com", Role: user.RoleAdmin}
	model := toUserModel(u)
	assert.Nil(t, model.GoogleID, "未绑定Google时存NULL,避免唯一索引冲突")
	assert.Equal(t, "admin", model.Role)

	u.GoogleID = "g-1"
	model = toUserModel(u)
	if assert.NotNil(t, model.GoogleID) {
		assert.Equal(t, "g-1", *model.GoogleID)
	}
	assert.Equal(t, u, toUserEntity(model))
}

func TestBookModelRoundTrip(t *testing.T) {
	b := &book.Book{ID: 1, Title: "Go", Slug: "go", Author: "X", Category: "Tech", Price: 10, OriginalPrice: 20, Stock: 3, Sold: 4, Views: 5, Rating: 4.5, NumReviews: 2}
	assert.Equal(t, b, toBookEntity(toBookModel(b)))
}

func TestSortClause(t *testing.T) {
	assert.Equal(t, "price ASC", sortClause(book.SortPriceAsc))
	assert.Equal(t, "sold DESC", sortClause(book.SortBestSelling))
	assert.Equal(t, "created_at DESC", sortClause(book.SortNewest))
}
