package qstore

import (
	"sync"
	"time"
)

/*
Metrics counts dispatcher activity. The dispatcher is the only writer; read
the counters through ExportMetrics.
*/
type Metrics struct {
	mu sync.RWMutex

	CallCount     int64
	FailureCount  int64
	Calls         map[string]int64
	Failures      map[ErrorCode]int64
	StatesCreated int64
	Measurements  int64
	Collapses     int64
	LastCall      time.Time
}

// NewMetrics returns zeroed counters.
func NewMetrics() *Metrics {
	return &Metrics{
		Calls:    make(map[string]int64),
		Failures: make(map[ErrorCode]int64),
	}
}

// recordCall counts a dispatched call and, when it failed, its error code.
func (m *Metrics) recordCall(method string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Calls[method]++
	m.LastCall = time.Now()

	if !result.Success() {
		m.FailureCount++
		m.Failures[result.Code()]++
	}
}

func (m *Metrics) recordCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatesCreated++
}

// recordMeasurement counts a measurement, and a collapse when it produced one.
func (m *Metrics) recordMeasurement(outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Measurements++
	if outcome == OutcomeCollapsed {
		m.Collapses++
	}
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"calls":          m.CallCount,
		"failures":       m.FailureCount,
		"not_found":      m.Failures[CodeNotFound],
		"unknown_method": m.Failures[CodeUnknownMethod],
		"invalid_args":   m.Failures[CodeInvalidArguments],
		"states_created": m.StatesCreated,
		"measurements":   m.Measurements,
		"collapses":      m.Collapses,
	}
}
