package model

import "fmt"

// State is the popup's UI state during a scan cycle.
type State int

const (
	// StateIdle is the ready state shown before the first scan.
	StateIdle State = iota

	// StateScanning is shown while a scan is in flight.
	StateScanning

	// StateSuccess is shown after a result was rendered.
	StateSuccess

	// StateError is shown after a scan failed.
	StateError
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, v := range []State{StateIdle, StateScanning, StateSuccess, StateError} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("%w: state %q", ErrUnknownName, text)
}
