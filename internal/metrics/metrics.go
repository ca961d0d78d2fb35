// Package metrics holds the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts completed full sync runs by terminal status.
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_sync_runs_total",
		Help: "Completed full sync runs by status",
	}, []string{"status"})

	// SyncDuration tracks end-to-end full sync duration.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_sync_duration_seconds",
		Help:    "Full sync duration",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
	})

	// SyncItemsFetched tracks how many items a full sync pulled.
	SyncItemsFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_sync_items_fetched",
		Help:    "Items fetched per full sync",
		Buckets: []float64{100, 500, 1000, 2500, 5000, 10000},
	})

	// ReconcileRows counts reconciliation rows by outcome.
	ReconcileRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reconcile_rows_total",
		Help: "Reconciliation rows by outcome (matched, unmatched, missing_tag)",
	}, []string{"outcome"})

	// StockUpdates counts bulk-apply stock writes by result.
	StockUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_stock_updates_total",
		Help: "Bulk-apply stock writes by result",
	}, []string{"result"})

	// RemoteRequestDuration tracks remote catalog call latency by method.
	RemoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_remote_request_duration_seconds",
		Help:    "Remote catalog request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method"})

	// RemoteRateLimited counts HTTP 429 responses from the remote catalog.
	RemoteRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_remote_rate_limited_total",
		Help: "HTTP 429 responses observed from the remote catalog",
	})
)
