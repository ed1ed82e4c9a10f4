package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookmall/internal/interface/http/dto"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Register(v))
	return v
}

func TestVNPhone(t *testing.T) {
	v := newValidator(t)

	valid := []string{"0912345678", "+84912345678", "0389999999", "0712345678"}
	for _, phone := range valid {
		assert.NoError(t, v.Var(phone, "vnphone"), phone)
	}

	invalid := []string{"", "0112345678", "091234567", "09123456789", "84912345678", "091234567a"}
	for _, phone := range invalid {
		assert.Error(t, v.Var(phone, "vnphone"), phone)
	}
}

func TestBookForm(t *testing.T) {
	v := newValidator(t)
	base := func() dto.BookForm {
		return dto.BookForm{Title: "Go", Author: "Alan", Category: "Tech", Price: 100000, CountInStock: 5}
	}

	t.Run("无原价", func(t *testing.T) {
		assert.NoError(t, v.Struct(base()))
	})

	t.Run("原价不低于售价", func(t *testing.T) {
		f := base()
		f.OriginalPrice = 100000
		assert.NoError(t, v.Struct(f))
		f.OriginalPrice = 150000
		assert.NoError(t, v.Struct(f))
	})

	t.Run("原价低于售价", func(t *testing.T) {
		f := base()
		f.OriginalPrice = 90000
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "原价不能低于售价", Message(err))
	})

	t.Run("分类为空白", func(t *testing.T) {
		f := base()
		f.Category = "   "
		err := v.Struct(f)
		require.Error(t, err)
		assert.Equal(t, "分类不合法", Message(err))
	})

	t.Run("分类过长", func(t *testing.T) {
		f := base()
		f.Category = string(make([]rune, 51))
		assert.Error(t, v.Struct(f))
	})
}

func TestMessage(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(dto.RegisterRequest{
		Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2",
		Name: "Reader", Username: "reader", OTP: "123456",
	})
	require.Error(t, err)
	assert.Equal(t, "两次输入的密码不一致", Message(err))

	err = v.Struct(dto.UpdateStatusRequest{Status: 9})
	require.Error(t, err)
	assert.Equal(t, "Status不能大于6", Message(err))
}
