package types

import "time"

// PositionState is the desired holding at a bar.
type PositionState int8

const (
	PositionFlat PositionState = 0
	PositionLong PositionState = 1
)

func (p PositionState) String() string {
	if p == PositionLong {
		return "long"
	}

	return "flat"
}

type EventKind string

const (
	// EventEnter marks a Flat to Long transition.
	EventEnter EventKind = "ENTER"
	// EventExit marks a Long to Flat transition.
	EventExit EventKind = "EXIT"
)

// PositionEvent is a change of PositionState between bar Index-1 and bar Index.
type PositionEvent struct {
	Index int       `yaml:"index" json:"index"`
	Time  time.Time `yaml:"time" json:"time"`
	Kind  EventKind `yaml:"kind" json:"kind"`
}
