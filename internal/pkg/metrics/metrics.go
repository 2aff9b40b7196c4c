package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 見積承諾の総数（status: reserved, conflict, lock_failed, error）
	BookingsTotal *prometheus.CounterVec

	// イベント確定状態の遷移数（transition: confirmed, reverted）
	EventTransitionsTotal *prometheus.CounterVec

	// 空き枠分割の総数
	WindowSplitsTotal prometheus.Counter

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// ステータス別のアクティブな見積依頼数
	ActiveQuoteRequests *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of proposal acceptance attempts",
			},
			[]string{"status"},
		),
		EventTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_transitions_total",
				Help: "Total number of event confirmation transitions",
			},
			[]string{"transition"},
		),
		WindowSplitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "window_splits_total",
				Help: "Total number of availability window splits",
			},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		ActiveQuoteRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_quote_requests",
				Help: "Current number of quote requests by status",
			},
			[]string{"status"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.EventTransitionsTotal,
		m.WindowSplitsTotal,
		m.DistributedLockDuration,
		m.ActiveQuoteRequests,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}

// Set はデフォルトのメトリクスインスタンスを差し替える
func Set(m *Metrics) {
	defaultMetrics = m
}
