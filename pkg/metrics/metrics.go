// Package metrics Prometheus指标定义
//
// 指标分四组：HTTP、订单/评价业务、缓存、基础设施（熔断器/Saga/消息队列）。
// 所有指标在InitMetrics中通过promauto注册到默认Registry，
// /metrics路由使用promhttp.Handler()暴露。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// ========== HTTP ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 订单 ==========

	OrdersCreatedTotal    prometheus.Counter
	OrdersFailedTotal     *prometheus.CounterVec // reason: stock/not_found/other
	OrderCreationDuration prometheus.Histogram
	OrdersCancelledTotal  *prometheus.CounterVec // mode: direct/requested
	OrderTransitionsTotal *prometheus.CounterVec // from, to
	ItemsSoldTotal        prometheus.Counter

	// ========== 评价 ==========

	ReviewsCreatedTotal prometheus.Counter

	// ========== 缓存 ==========

	CacheRequestsTotal *prometheus.CounterVec // cache, result: hit/miss/error

	// ========== 基础设施 ==========

	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerRequests *prometheus.CounterVec
	SagaExecutionsTotal    *prometheus.CounterVec
	SagaCompensationsTotal prometheus.Counter
	MessagesPublishedTotal *prometheus.CounterVec
	MessagesConsumedTotal  *prometheus.CounterVec
)

// InitMetrics 初始化所有指标（可重复调用）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmall_orders_created_total",
			Help: "订单创建总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmall_orders_failed_total",
			Help: "订单创建失败总数",
		},
		[]string{"reason"},
	)

	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookmall_order_creation_duration_seconds",
			Help:    "订单创建耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrdersCancelledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmall_orders_cancelled_total",
			Help: "用户取消订单次数（direct=直接取消, requested=提交取消申请）",
		},
		[]string{"mode"},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmall_order_transitions_total",
			Help: "订单状态流转次数",
		},
		[]string{"from", "to"},
	)

	ItemsSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmall_items_sold_total",
			Help: "售出图书册数",
		},
	)

	ReviewsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmall_reviews_created_total",
			Help: "图书评价总数",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmall_cache_requests_total",
			Help: "缓存访问次数",
		},
		[]string{"cache", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"}, // success/failure/rejected
	)

	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"saga", "result"},
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"routing_key", "result"},
	)
}

// =========================================
// 辅助函数
// =========================================

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	counter.Add(v)
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// SetGaugeVec 设置带标签的Gauge值
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// CacheResult 记录一次缓存访问结果
func CacheResult(cache, result string) {
	InitMetrics()
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}
