// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secretshare.
//
// go-secretshare is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


// Package metrics provides Prometheus instrumentation for secret sharing
// operations. It exposes operation counters, duration histograms, error
// counters and process gauges, and can export them in the node_exporter
// textfile format for short-lived CLI runs.
package metrics

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all secretshare metrics
	Namespace = "secretshare"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSplit   = "split"
	OpSample  = "sample"
	OpCombine = "combine"
	OpVerify  = "verify"

	// Error types reported by ErrorType
	ErrTypeInvalidParameters  = "invalid_parameters"
	ErrTypeInsufficientShares = "insufficient_shares"
	ErrTypeOverflow           = "overflow"
	ErrTypeThresholdMismatch  = "threshold_mismatch"
	ErrTypeInconsistentShares = "inconsistent_shares"
	ErrTypeDuplicateIndex     = "duplicate_index"
	ErrTypeBundleMismatch     = "bundle_mismatch"
	ErrTypeUnknown            = "unknown"
)

var (
	// OperationsTotal tracks the total number of operations by type and status.
	// Use RecordOperation to increment this counter with the appropriate labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of secret sharing operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks the duration of operations in seconds.
	// Interpolation of a handful of shares completes in microseconds, so the
	// buckets start at 10µs.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of secret sharing operations in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks the total number of errors by operation and error type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// SharesGenerated counts shares produced by split operations.
	SharesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shares_generated_total",
			Help:      "Total number of shares generated",
		},
	)

	// SharesCombined counts shares consumed by combine operations.
	SharesCombined = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shares_combined_total",
			Help:      "Total number of shares consumed by reconstruction",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records an operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	shares, err := scheme.Split(secret)
//	metrics.RecordOperation(metrics.OpSplit, metrics.Status(err), time.Since(start).Seconds())
func RecordOperation(operation, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// Observe runs fn and records its duration, status and error type under
// operation. The error from fn is returned unchanged.
func Observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	RecordOperation(operation, Status(err), time.Since(start).Seconds())
	RecordError(operation, err)
	return err
}

// RecordError records an error event for the operation, classified by
// ErrorType.
func RecordError(operation string, err error) {
	if !enabled.Load() || err == nil {
		return
	}
	ErrorsTotal.WithLabelValues(operation, ErrorType(err)).Inc()
}

// AddSharesGenerated adds n to the generated shares counter.
func AddSharesGenerated(n int) {
	if !enabled.Load() {
		return
	}
	SharesGenerated.Add(float64(n))
}

// AddSharesCombined adds n to the combined shares counter.
func AddSharesCombined(n int) {
	if !enabled.Load() {
		return
	}
	SharesCombined.Add(float64(n))
}

// Status maps an operation result to a status label value.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// ErrorType maps an error to a low-cardinality label value using the
// secretsharing sentinel errors.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, secretsharing.ErrInvalidParameters):
		return ErrTypeInvalidParameters
	case errors.Is(err, secretsharing.ErrInsufficientShares):
		return ErrTypeInsufficientShares
	case errors.Is(err, secretsharing.ErrOverflow):
		return ErrTypeOverflow
	case errors.Is(err, secretsharing.ErrThresholdMismatch):
		return ErrTypeThresholdMismatch
	case errors.Is(err, secretsharing.ErrInconsistentShares):
		return ErrTypeInconsistentShares
	case errors.Is(err, secretsharing.ErrDuplicateIndex):
		return ErrTypeDuplicateIndex
	case errors.Is(err, secretsharing.ErrBundleMismatch):
		return ErrTypeBundleMismatch
	default:
		return ErrTypeUnknown
	}
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
