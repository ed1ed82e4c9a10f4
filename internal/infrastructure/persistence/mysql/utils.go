package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 错误信息包含"Duplicate entry"(未开启TranslateError时保留索引名)
	return strings.Contains(err.Error(), "Duplicate entry")
}

// duplicateKeyIs 冲突的索引名是否包含column
func duplicateKeyIs(err error, column string) bool {
	return isDuplicateError(err) && strings.Contains(err.Error(), column)
}

// likePattern 构造LIKE子串匹配模式,转义通配符
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}

// paginate 分页参数规整
func paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
