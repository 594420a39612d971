// SPDX-License-Identifier: MIT

package gram

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "maldikern"
	metricsSubsystem = "gram"
)

// Label values of the mode label.
const (
	modeLabelSelf         = "self"
	modeLabelSelfGradient = "self_gradient"
	modeLabelCross        = "cross"
	modeLabelDiagonal     = "diagonal"
)

// Label values of the reason label.
const (
	reasonGradientRequiresSelf = "gradient_requires_self"
	reasonGradientUnsupported  = "gradient_unsupported"
	reasonEmptyCollection      = "empty_collection"
	reasonInvalidInput         = "invalid_input"
	reasonUnknownMode          = "unknown_mode"
	reasonCanceled             = "canceled"
)

// Metrics holds the Prometheus collectors of an Assembler.
//
// All methods are safe on a nil receiver, so an Assembler without metrics
// pays nothing beyond a nil check.
type Metrics struct {
	// PairEvaluations counts pointwise kernel calls of successful assemblies.
	// Labels: mode (self, self_gradient, cross, diagonal)
	PairEvaluations *prometheus.CounterVec

	// AssemblyDuration measures wall time of successful assemblies.
	// Labels: mode
	AssemblyDuration *prometheus.HistogramVec

	// RejectedRequests counts calls that returned an error.
	// Labels: reason
	RejectedRequests *prometheus.CounterVec
}

// NewMetrics creates the gram collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PairEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "pair_evaluations_total",
				Help:      "Pointwise kernel evaluations performed by successful matrix assemblies.",
			},
			[]string{"mode"},
		),
		AssemblyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "assembly_duration_seconds",
				Help:      "Wall time of successful matrix assemblies.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"mode"},
		),
		RejectedRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "rejected_requests_total",
				Help:      "Assembly requests that returned an error, by reason.",
			},
			[]string{"reason"},
		),
	}
}

func (m *Metrics) recordSuccess(mode string, pairs int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PairEvaluations.WithLabelValues(mode).Add(float64(pairs))
	m.AssemblyDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (m *Metrics) recordRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedRequests.WithLabelValues(reason).Inc()
}
