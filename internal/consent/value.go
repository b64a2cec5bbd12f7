// Package consent decides whether external plugins need an administrator's
// risk acknowledgement before they are loaded.
package consent

import "fmt"

// Value is the persisted state of the plugin risk consent.
type Value int

const (
	// Accepted means the administrator acknowledged the risk; external plugins may load.
	Accepted Value = iota + 1
	// NotAccepted means consent was recorded as not given.
	NotAccepted
	// Required means external plugins are present and consent has not been accepted.
	Required
)

var valueNames = map[Value]string{
	Accepted:    "ACCEPTED",
	NotAccepted: "NOT_ACCEPTED",
	Required:    "REQUIRED",
}

// String returns the name stored in the property store.
func (v Value) String() string {
	if name, ok := valueNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Value(%d)", int(v))
}

// Valid reports whether v is one of the three known values.
func (v Value) Valid() bool {
	_, ok := valueNames[v]
	return ok
}

// ParseValue maps a stored name back to a Value. Names are matched exactly.
func ParseValue(s string) (Value, bool) {
	for v, name := range valueNames {
		if name == s {
			return v, true
		}
	}
	return 0, false
}

// State is a Value that may be missing from the store.
type State struct {
	Value   Value
	Present bool
}

// Absent is the state of a store that has never recorded consent.
var Absent = State{}

// Stored wraps a known value as a present state.
func Stored(v Value) State {
	return State{Value: v, Present: true}
}

// Is reports whether the state holds v.
func (s State) Is(v Value) bool {
	return s.Present && s.Value == v
}

// String renders ABSENT for a missing record.
func (s State) String() string {
	if !s.Present {
		return "ABSENT"
	}
	return s.Value.String()
}
