package call

import (
	"errors"

	"github.com/HMasataka/telecall/pkg/media"
)

var (
	ErrAlreadyStarted       = errors.New("session already started")
	ErrSessionEnded         = errors.New("session ended")
	ErrNoMedia              = errors.New("no local media")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrSignaling            = errors.New("signaling failed")
	ErrNegotiation          = errors.New("negotiation failed")
	ErrNegotiationTimeout   = errors.New("negotiation timed out")
	ErrPeerConnectionFailed = errors.New("peer connection failed")
	ErrAnswerBeforeOffer    = errors.New("answer received before local offer")
	ErrEmptyParticipantID   = errors.New("participant id is empty")
	ErrEmptySessionID       = errors.New("session id is empty")
)

// Describe maps a session failure onto the message shown to the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case media.IsCaptureError(err):
		return media.Hint(err)
	case errors.Is(err, ErrSignaling):
		return "Could not reach the call service. Check your connection and try again."
	case errors.Is(err, ErrNegotiationTimeout):
		return "The other participant did not join in time. Try again."
	case errors.Is(err, ErrNegotiation):
		return "The call could not be set up. Try again."
	case errors.Is(err, ErrPeerConnectionFailed):
		return "The connection to the other participant was lost."
	default:
		return "Something went wrong with the call. Try again."
	}
}
