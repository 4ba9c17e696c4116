package queenio

import "strings"

// PollOpt selects the trigger behavior of a registration.
//
// Level-triggered registrations report a state for as long as it holds;
// edge-triggered ones report it once per transition. Oneshot disarms the
// registration after the first event until Reregister is called.
type PollOpt int

const (
	// PollEdge requests edge-triggered notifications.
	PollEdge PollOpt = 1 << iota
	// PollLevel requests level-triggered notifications (the default).
	PollLevel
	// PollOneshot disarms the registration after one delivered event.
	PollOneshot
)

func (o PollOpt) IsEdge() bool    { return o&PollEdge != 0 }
func (o PollOpt) IsLevel() bool   { return o&PollLevel != 0 }
func (o PollOpt) IsOneshot() bool { return o&PollOneshot != 0 }

func (o PollOpt) String() string {
	if o == 0 {
		return "(empty)"
	}
	var parts []string
	if o.IsEdge() {
		parts = append(parts, "Edge")
	}
	if o.IsLevel() {
		parts = append(parts, "Level")
	}
	if o.IsOneshot() {
		parts = append(parts, "Oneshot")
	}
	return strings.Join(parts, " | ")
}
