// Package shared 跨聚合共用的领域抽象
package shared

import "context"

// TxManager 事务管理器
// fn内通过ctx调用的所有仓储操作处于同一个数据库事务中，
// fn返回error时整体回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
