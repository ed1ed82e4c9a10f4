package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:BM + 时间(yyyyMMddHHmmss) + 6位随机数,如 BM20250101120000042137
// 唯一性最终由order_no唯一索引保证
func GenerateOrderNo(now time.Time) string {
	return fmt.Sprintf("BM%s%06d", now.Format("20060102150405"), rand.Intn(1000000))
}
