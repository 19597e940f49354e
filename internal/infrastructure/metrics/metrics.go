// Package metrics 定義 Prometheus 指標
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meal_planner"

// 標籤名稱
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelTier     = "tier"
	LabelOutcome  = "outcome"
	LabelStrategy = "strategy"
	LabelProvider = "provider"
	LabelCache    = "cache"
)

// 結果標籤值
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
)

// HTTP 指標
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		},
	)
)

// 餐點來源指標
var (
	TierAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sourcing_tier_attempts_total",
			Help:      "Meal sourcing attempts per tier and outcome",
		},
		[]string{LabelTier, LabelOutcome},
	)

	TierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sourcing_tier_duration_seconds",
			Help:      "Latency of a single sourcing tier attempt",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelTier},
	)

	RecoveryStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_strategy_total",
			Help:      "Winning recovery strategy for generated output (none when nothing parsed)",
		},
		[]string{LabelStrategy},
	)

	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_calls_total",
			Help:      "Generative provider calls per provider and outcome",
		},
		[]string{LabelProvider, LabelOutcome},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups per cache and outcome",
		},
		[]string{LabelCache, LabelOutcome},
	)
)

// 週計畫指標
var (
	PlansAssembled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_assembled_total",
			Help:      "Weekly plan assembly attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	PlanAssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_assembly_duration_seconds",
			Help:      "Time to assemble a weekly plan",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	PlanSlotRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_slot_retries_total",
			Help:      "Meal slots re-sourced because of duplicate names",
		},
	)

	GroceryListsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grocery_lists_built_total",
			Help:      "Grocery lists built from plans or ad-hoc ingredients",
		},
	)
)
