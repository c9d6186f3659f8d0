package qstore

import (
	"github.com/theapemachine/errnie"
)

/*
Space wires a QuantumStateStore and the MeasurementStore that depends on it,
sharing one Config, one Metrics and one event feed between them.
*/
type Space struct {
	States       *QuantumStateStore
	Measurements *MeasurementStore
	Metrics      *Metrics
	Events       *BroadcastGroup
	config       *Config
}

/*
NewSpace builds both stores. Measurement options such as WithClock are passed
through to the MeasurementStore.
*/
func NewSpace(config *Config, opts ...MeasurementOption) *Space {
	if config == nil {
		config = NewConfig()
	}

	states := NewQuantumStateStore(config)

	if config.Verbose {
		errnie.Info("NewSpace - format %s", config.Format)
	}

	space := &Space{
		States:       states,
		Measurements: NewMeasurementStore(states, config, opts...),
		Metrics:      NewMetrics(),
		Events:       NewBroadcastGroup(),
		config:       config,
	}

	states.notify = space.publish
	space.Measurements.notify = space.publish

	return space
}

// Config returns the configuration shared by both stores.
func (space *Space) Config() *Config {
	return space.config
}

// Close shuts the event feed down. The stores stay readable.
func (space *Space) Close() {
	space.Events.Close()
}

/*
publish stamps event with the measurement clock and sends it. The stores call
it while holding their locks; Send never blocks and never calls back into a
store, so the lock order states, measurements, events holds.
*/
func (space *Space) publish(event Event) {
	if event.At.IsZero() {
		event.At = space.Measurements.now()
	}
	space.Events.Send(event)
}
