// Package metrics holds the Prometheus collectors for the signup service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for mutation counters.
const (
	OutcomeSuccess        = "success"
	OutcomeNotFound       = "not_found"
	OutcomeConflict       = "conflict"
	OutcomeStorageFailure = "storage_failure"
)

const (
	operationSignup     = "signup"
	operationUnregister = "unregister"
	storeOperationLoad  = "load"
	storeOperationSave  = "save"
)

// Metrics groups the service collectors.
type Metrics struct {
	mutations     *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	listed        prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_signup",
			Subsystem: "participants",
			Name:      "mutations_total",
			Help:      "Signup and unregister attempts by outcome.",
		}, []string{"operation", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "activity_signup",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of whole-collection load and save calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		listed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "activity_signup",
			Subsystem: "query",
			Name:      "result_size",
			Help:      "Number of activities returned by list queries.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
	reg.MustRegister(m.mutations, m.storeDuration, m.listed)
	return m
}

// Signup counts a signup attempt.
func (m *Metrics) Signup(outcome string) {
	m.mutations.WithLabelValues(operationSignup, outcome).Inc()
}

// Unregister counts an unregister attempt.
func (m *Metrics) Unregister(outcome string) {
	m.mutations.WithLabelValues(operationUnregister, outcome).Inc()
}

// ObserveLoad records the duration of a store load.
func (m *Metrics) ObserveLoad(start time.Time, err error) {
	m.observeStore(storeOperationLoad, start, err)
}

// ObserveSave records the duration of a store save.
func (m *Metrics) ObserveSave(start time.Time, err error) {
	m.observeStore(storeOperationSave, start, err)
}

// ObserveListSize records how many activities a list query returned.
func (m *Metrics) ObserveListSize(n int) {
	m.listed.Observe(float64(n))
}

func (m *Metrics) observeStore(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.storeDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
