package order

// Actor 状态流转的发起方
type Actor string

const (
	ActorAdmin Actor = "admin"
	ActorOwner Actor = "owner"
)

// transitions 状态流转表: 当前状态 → 发起方 → 允许的目标状态
// 未出现在表中的组合一律拒绝(终态没有任何出边)
var transitions = map[OrderStatus]map[Actor][]OrderStatus{
	OrderStatusNew: {
		ActorAdmin: {OrderStatusConfirmed},
		ActorOwner: {OrderStatusCancelled},
	},
	OrderStatusConfirmed: {
		ActorAdmin: {OrderStatusPreparing},
		ActorOwner: {OrderStatusCancelled}, // 受取消窗口约束
	},
	OrderStatusPreparing: {
		ActorAdmin: {OrderStatusShipping},
	},
	OrderStatusShipping: {
		ActorOwner: {OrderStatusDelivered},
	},
}

// CanTransition 判断actor能否把订单从from推进到to
func CanTransition(from OrderStatus, actor Actor, to OrderStatus) bool {
	for _, allowed := range transitions[from][actor] {
		if allowed == to {
			return true
		}
	}
	return false
}
