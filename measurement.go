package qstore

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Measurement is the immutable record of one observation of a quantum state.
type Measurement struct {
	ID             uint64    `json:"id"`
	QuantumStateID uint64    `json:"quantum_state_id"`
	Result         Outcome   `json:"result"`
	Timestamp      time.Time `json:"timestamp"`
}

/*
MeasurementStore owns measurement records and their id counter, which is
independent of the quantum state counter. It depends on a QuantumStateStore
for lookups and for collapsing the measured state.
*/
type MeasurementStore struct {
	mu           sync.RWMutex
	measurements map[uint64]Measurement
	nextID       uint64
	states       *QuantumStateStore
	config       *Config
	now          func() time.Time
	notify       func(Event)
}

// MeasurementOption configures a MeasurementStore.
type MeasurementOption func(*MeasurementStore)

// WithClock replaces time.Now as the source of measurement timestamps.
func WithClock(now func() time.Time) MeasurementOption {
	return func(store *MeasurementStore) {
		store.now = now
	}
}

/*
NewMeasurementStore creates an empty store whose first measurement id is 0.

Parameters:
  - states: The store holding the states being measured
  - config: Shared configuration; nil falls back to NewConfig()
  - opts: Options such as WithClock

Returns:
  - *MeasurementStore: An empty store ready for use
*/
func NewMeasurementStore(
	states *QuantumStateStore, config *Config, opts ...MeasurementOption,
) *MeasurementStore {
	if config == nil {
		config = NewConfig()
	}

	store := &MeasurementStore{
		measurements: make(map[uint64]Measurement),
		states:       states,
		config:       config,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

/*
PerformMeasurement observes the quantum state stateID and records the
outcome.

The first measurement of a state records OutcomeCollapsed and drives its
superposition flag to false; every later one records OutcomeMeasured. The
read of the flag, the write of the record and the collapse happen under the
state store's write lock, so no caller can see one without the others.

Parameters:
  - stateID: Id of an existing quantum state

Returns:
  - uint64: Id of the new measurement
  - error: ErrNotFound if stateID is unknown; no measurement id is consumed
*/
func (store *MeasurementStore) PerformMeasurement(stateID uint64) (uint64, error) {
	var (
		id     uint64
		result Outcome
	)

	err := store.states.observe(stateID, func(superposition bool) {
		store.mu.Lock()
		defer store.mu.Unlock()

		id = store.nextID
		result = outcomeFor(superposition)
		store.nextID++

		measurement := Measurement{
			ID:             id,
			QuantumStateID: stateID,
			Result:         result,
			Timestamp:      store.now(),
		}
		store.measurements[id] = measurement

		if store.notify != nil {
			measurementID := id
			store.notify(Event{
				Kind:           EventMeasurementRecorded,
				QuantumStateID: stateID,
				MeasurementID:  &measurementID,
				Result:         result,
				At:             measurement.Timestamp,
			})
		}
	})
	if err != nil {
		return 0, err
	}

	if store.config.Verbose {
		errnie.Info(
			"MeasurementStore.PerformMeasurement - id %d, state %d, result %s",
			id, stateID, result,
		)
	}

	return id, nil
}

// Get returns the stored measurement, or ErrNotFound.
func (store *MeasurementStore) Get(id uint64) (Measurement, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	measurement, ok := store.measurements[id]
	if !ok {
		return Measurement{}, notFound("get-measurement", EntityMeasurement, id)
	}
	return measurement, nil
}

// Len is also the next measurement id, since ids are never reused.
func (store *MeasurementStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.measurements)
}
