package metrix

import "time"

// Observation is an immutable data point produced at an application call
// site: a label that routes it to zero or more panels, an optional value,
// and the instant it was stamped.
type Observation[L comparable] struct {
	Label     L
	Value     ObservedValue
	Timestamp time.Time
}

// newObservation stamps the current time onto a label/value pair. Producers
// never construct Observation directly; Transmitter.Observed does the
// stamping so every observation carries a consistent clock source.
func newObservation[L comparable](label L, value ObservedValue, now time.Time) Observation[L] {
	return Observation[L]{Label: label, Value: value, Timestamp: now}
}
