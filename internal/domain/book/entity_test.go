package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookmall/pkg/errors"
)

func validAttrs() Attributes {
	return Attributes{
		Title:         "Clean Code",
		Author:        "Robert C. Martin",
		Category:      "Programming",
		Price:         150000,
		OriginalPrice: 200000,
		Stock:         5,
	}
}

func TestNewBook(t *testing.T) {
	t.Run("正常创建并生成slug", func(t *testing.T) {
		b, err := NewBook(validAttrs(), 1)
		require.NoError(t, err)
		assert.Equal(t, "clean-code", b.Slug)
		assert.Equal(t, uint(1), b.CreatedBy)
		assert.Equal(t, 5, b.Stock)
		assert.Zero(t, b.Sold)
	})

	t.Run("字段校验", func(t *testing.T) {
		cases := []struct {
			name   string
			modify func(a *Attributes)
			want   error
		}{
			{"书名为空", func(a *Attributes) { a.Title = "  " }, ErrInvalidAttributes},
			{"分类为空", func(a *Attributes) { a.Category = "" }, ErrInvalidCategory},
			{"价格为0", func(a *Attributes) { a.Price = 0 }, ErrInvalidPrice},
			{"原价低于售价", func(a *Attributes) { a.OriginalPrice = 100 }, ErrInvalidOriginalPrice},
			{"库存为负", func(a *Attributes) { a.Stock = -1 }, ErrInvalidStock},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				attrs := validAttrs()
				tc.modify(&attrs)
				_, err := NewBook(attrs, 1)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("原价为0表示无折扣", func(t *testing.T) {
		attrs := validAttrs()
		attrs.OriginalPrice = 0
		_, err := NewBook(attrs, 1)
		assert.NoError(t, err)
	})
}

func TestBook_Update(t *testing.T) {
	b, err := NewBook(validAttrs(), 1)
	require.NoError(t, err)
	b.Image = "/uploads/cover.png"
	b.Sold = 7

	attrs := validAttrs()
	attrs.Title = "Clean Architecture"
	attrs.Stock = 12

	delta, err := b.Update(attrs)
	require.NoError(t, err)

	assert.Equal(t, 7, delta)
	assert.Equal(t, "clean-architecture", b.Slug)
	assert.Equal(t, "/uploads/cover.png", b.Image, "未上传新封面时保留原封面")
	assert.Equal(t, 7, b.Sold, "计数字段不受编辑影响")
}

func TestBook_DiscountRate(t *testing.T) {
	b := &Book{Price: 75, OriginalPrice: 100}
	assert.InDelta(t, 0.25, b.DiscountRate(), 1e-9)

	b = &Book{Price: 100, OriginalPrice: 100}
	assert.Zero(t, b.DiscountRate())

	b = &Book{Price: 100}
	assert.Zero(t, b.DiscountRate())
}

func TestBook_HasStock(t *testing.T) {
	b := &Book{Stock: 5}
	assert.True(t, b.HasStock(5))
	assert.False(t, b.HasStock(6))
	assert.False(t, b.HasStock(0))
	assert.True(t, b.InStock())
}

func TestInsufficientStock(t *testing.T) {
	err := InsufficientStock("Clean Code", 2)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, err.Code)
	assert.Contains(t, err.Message, "Clean Code")
	assert.Contains(t, err.Message, "2")
	assert.Equal(t, 400, err.HTTPStatus())
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price_asc"))
	assert.Equal(t, SortBestSelling, ParseSort("best_selling"))
	assert.Equal(t, SortNewest, ParseSort("random"))
}
