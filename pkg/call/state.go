package call

import "fmt"

type State int

const (
	StateIdle State = iota
	StateAcquiringMedia
	StateSignaling
	StateConnected
	StateActive
	StateEnding
	StateEnded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiringMedia:
		return "acquiring_media"
	case StateSignaling:
		return "signaling"
	case StateConnected:
		return "connected"
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateFailed
}

// negotiating reports whether the session has not yet reached Connected.
// Signaling failures in these states abort the call.
func (s State) negotiating() bool {
	return s == StateAcquiringMedia || s == StateSignaling
}

var transitions = map[State][]State{
	StateIdle:           {StateAcquiringMedia, StateEnded},
	StateAcquiringMedia: {StateSignaling, StateActive, StateFailed, StateEnding},
	StateSignaling:      {StateConnected, StateFailed, StateEnding},
	StateConnected:      {StateActive, StateEnding},
	StateActive:         {StateEnding},
	StateEnding:         {StateEnded},
}

func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition when next is not
// reachable from s.
func (s State) ValidateTransition(next State) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

type Role int

const (
	RoleInitiator Role = iota
	RoleResponder
)

func (r Role) String() string {
	if r == RoleResponder {
		return "responder"
	}
	return "initiator"
}

type Mode int

const (
	ModeLive Mode = iota
	// ModeLoopback renders local capture to both sinks without a counterpart.
	ModeLoopback
)

func (m Mode) String() string {
	if m == ModeLoopback {
		return "loopback"
	}
	return "live"
}

type Visibility int

const (
	VisibilityForeground Visibility = iota
	VisibilityBackground
)

func (v Visibility) String() string {
	if v == VisibilityBackground {
		return "background"
	}
	return "foreground"
}

// Participant is the local identity. ID is used as the signaling sender id.
type Participant struct {
	ID          string
	DisplayName string
}
