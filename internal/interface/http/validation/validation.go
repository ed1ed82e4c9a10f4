// Package validation 注册自定义校验规则，并把校验错误转换为可读的提示
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/bookmall/internal/interface/http/dto"
)

const maxCategoryLength = 50

// 越南手机号：0或+84开头，第二位为3/5/7/8/9，后接8位数字
var vnPhonePattern = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)\d{8}$`)

// Setup 向gin的校验引擎注册自定义规则，启动时调用一次
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin校验引擎不是validator/v10")
	}
	return Register(v)
}

// Register 注册自定义规则
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("vnphone", validateVNPhone); err != nil {
		return err
	}
	if err := v.RegisterValidation("bookcategory", validateCategory); err != nil {
		return err
	}
	v.RegisterStructValidation(validateBookPrices, dto.BookForm{})
	return nil
}

func validateVNPhone(fl validator.FieldLevel) bool {
	return vnPhonePattern.MatchString(fl.Field().String())
}

// 分类：去除首尾空白后非空，不超过50个字符，不含控制字符
func validateCategory(fl validator.FieldLevel) bool {
	category := strings.TrimSpace(fl.Field().String())
	if category == "" || utf8.RuneCountInString(category) > maxCategoryLength {
		return false
	}
	return strings.IndexFunc(category, unicode.IsControl) < 0
}

// 原价为0（无折扣）或不低于售价
func validateBookPrices(sl validator.StructLevel) {
	form := sl.Current().Interface().(dto.BookForm)
	if form.OriginalPrice != 0 && form.OriginalPrice < form.Price {
		sl.ReportError(form.OriginalPrice, "OriginalPrice", "originalPrice", "pricerange", "")
	}
}

// Message 把绑定/校验错误转换为提示文本，只取第一个字段错误
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "vnphone":
		return "手机号格式不正确"
	case "bookcategory":
		return "分类不合法"
	case "pricerange":
		return "原价不能低于售价"
	case "eqfield":
		return "两次输入的密码不一致"
	case "len":
		return fmt.Sprintf("%s长度必须为%s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s必须是以下之一: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s校验失败(%s)", field, fe.Tag())
	}
}
