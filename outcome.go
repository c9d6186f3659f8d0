package qstore

/*
Outcome is the result label recorded on a measurement. It is derived once,
from the superposition flag the referenced state carried at the moment of
measurement, and never changes afterward.
*/
type Outcome string

const (
	OutcomeCollapsed Outcome = "collapsed" // State was still in superposition
	OutcomeMeasured  Outcome = "measured"  // State had already collapsed
)

// outcomeFor maps the pre-measurement flag to its outcome.
func outcomeFor(superposition bool) Outcome {
	if superposition {
		return OutcomeCollapsed
	}
	return OutcomeMeasured
}

// Valid reports whether o is one of the two known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeCollapsed || o == OutcomeMeasured
}
