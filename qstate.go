package qstore

import (
	"sync"

	"github.com/theapemachine/errnie"
)

/*
QuantumState is a labelled record carrying a superposition flag. The flag
starts true and can only ever be driven to false, by a measurement.
*/
type QuantumState struct {
	ID            uint64 `json:"id"`
	Label         string `json:"label"`
	Superposition bool   `json:"superposition"`
}

/*
QuantumStateStore owns the quantum state records and their id counter.

All mutations, including the collapse performed on behalf of the
MeasurementStore, happen under mu, which makes the store the single writer
for everything that touches a superposition flag.
*/
type QuantumStateStore struct {
	mu     sync.RWMutex
	states map[uint64]*QuantumState
	nextID uint64
	config *Config
	notify func(Event)
}

/*
NewQuantumStateStore creates an empty store. The first id it hands out is 0.

Parameters:
  - config: Shared configuration; nil falls back to NewConfig()

Returns:
  - *QuantumStateStore: An empty store ready for use
*/
func NewQuantumStateStore(config *Config) *QuantumStateStore {
	if config == nil {
		config = NewConfig()
	}

	return &QuantumStateStore{
		states: make(map[uint64]*QuantumState),
		config: config,
	}
}

// Create stores a new state in superposition and returns its id.
func (store *QuantumStateStore) Create(label string) uint64 {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextID
	store.nextID++
	store.states[id] = &QuantumState{
		ID:            id,
		Label:         label,
		Superposition: true,
	}

	store.trace("QuantumStateStore.Create - id %d, label %q", id, label)
	store.emit(Event{Kind: EventStateCreated, QuantumStateID: id, Label: label})
	return id
}

/*
Update replaces the label of an existing state. The superposition flag is
left untouched, whether or not the state has collapsed.
*/
func (store *QuantumStateStore) Update(id uint64, label string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	state, ok := store.states[id]
	if !ok {
		return notFound("update-quantum-state", EntityQuantumState, id)
	}

	state.Label = label
	store.trace("QuantumStateStore.Update - id %d, label %q", id, label)
	store.emit(Event{Kind: EventStateUpdated, QuantumStateID: id, Label: label})
	return nil
}

// Get returns a copy of the record so callers cannot mutate the store.
func (store *QuantumStateStore) Get(id uint64) (QuantumState, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	state, ok := store.states[id]
	if !ok {
		return QuantumState{}, notFound("get-quantum-state", EntityQuantumState, id)
	}
	return *state, nil
}

// Len returns the number of states created so far.
func (store *QuantumStateStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.states)
}

/*
observe runs fn with the current superposition flag of id and then collapses
the state, all while holding the write lock. fn must not call back into the
QuantumStateStore. If id is unknown, fn is never called.
*/
func (store *QuantumStateStore) observe(id uint64, fn func(superposition bool)) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	state, ok := store.states[id]
	if !ok {
		return notFound("perform-measurement", EntityQuantumState, id)
	}

	fn(state.Superposition)
	store.collapse(state)
	return nil
}

// collapse is idempotent. Callers must hold mu.
func (store *QuantumStateStore) collapse(state *QuantumState) {
	if !state.Superposition {
		return
	}
	state.Superposition = false
	store.trace("QuantumStateStore.collapse - id %d", state.ID)
}

// emit runs under mu so events leave in mutation order.
func (store *QuantumStateStore) emit(event Event) {
	if store.notify != nil {
		store.notify(event)
	}
}

func (store *QuantumStateStore) trace(format string, args ...any) {
	if store.config.Verbose {
		errnie.Info(format, args...)
	}
}
