// Package signaling defines the negotiation messages exchanged between the
// two participants of a call over the signaling relay.
package signaling

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/xid"
)

type MessageType string

const (
	MessageTypeOffer        MessageType = "offer"
	MessageTypeAnswer       MessageType = "answer"
	MessageTypeICECandidate MessageType = "candidate"
	MessageTypeHangup       MessageType = "hangup"
	MessageTypeJoin         MessageType = "join"
)

var (
	ErrEmptySenderID    = errors.New("sender id is empty")
	ErrUnknownType      = errors.New("unknown message type")
	ErrSDPTypeMismatch  = errors.New("session description type does not match message type")
	ErrUnexpectedFormat = errors.New("message data does not match message type")
)

// Message is the envelope published on a session channel. The relay is a
// broadcast medium, so every subscriber (the sender included) receives it;
// SenderID lets a participant discard its own echoes.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	SenderID  string          `json:"sender_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type SDPMessage struct {
	SessionDescription webrtc.SessionDescription `json:"sdp"`
}

type ICECandidateMessage struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type HangupMessage struct {
	Reason string `json:"reason,omitempty"`
}

func newMessage(messageType MessageType, senderID string, data any) (*Message, error) {
	if senderID == "" {
		return nil, ErrEmptySenderID
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s data: %w", messageType, err)
	}

	return &Message{
		ID:        xid.New().String(),
		Type:      messageType,
		SenderID:  senderID,
		Timestamp: time.Now(),
		Data:      b,
	}, nil
}

func NewOfferMessage(senderID string, offer webrtc.SessionDescription) (*Message, error) {
	if offer.Type != webrtc.SDPTypeOffer {
		return nil, ErrSDPTypeMismatch
	}
	return newMessage(MessageTypeOffer, senderID, SDPMessage{SessionDescription: offer})
}

func NewAnswerMessage(senderID string, answer webrtc.SessionDescription) (*Message, error) {
	if answer.Type != webrtc.SDPTypeAnswer {
		return nil, ErrSDPTypeMismatch
	}
	return newMessage(MessageTypeAnswer, senderID, SDPMessage{SessionDescription: answer})
}

func NewICECandidateMessage(senderID string, candidate webrtc.ICECandidateInit) (*Message, error) {
	return newMessage(MessageTypeICECandidate, senderID, ICECandidateMessage{Candidate: candidate})
}

func NewHangupMessage(senderID, reason string) (*Message, error) {
	return newMessage(MessageTypeHangup, senderID, HangupMessage{Reason: reason})
}

// NewJoinMessage announces that senderID has subscribed to the session and
// needs the current offer.
func NewJoinMessage(senderID string) (*Message, error) {
	return newMessage(MessageTypeJoin, senderID, struct{}{})
}

// IsFrom reports whether the message was published by participantID.
func (m *Message) IsFrom(participantID string) bool {
	return m != nil && m.SenderID == participantID
}

// SessionDescription decodes the SDP carried by an offer or answer.
func (m *Message) SessionDescription() (webrtc.SessionDescription, error) {
	var want webrtc.SDPType
	switch m.Type {
	case MessageTypeOffer:
		want = webrtc.SDPTypeOffer
	case MessageTypeAnswer:
		want = webrtc.SDPTypeAnswer
	default:
		return webrtc.SessionDescription{}, ErrUnexpectedFormat
	}

	var sdpMsg SDPMessage
	if err := json.Unmarshal(m.Data, &sdpMsg); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to unmarshal sdp: %w", err)
	}

	if sdpMsg.SessionDescription.Type != want {
		return webrtc.SessionDescription{}, ErrSDPTypeMismatch
	}

	return sdpMsg.SessionDescription, nil
}

// ICECandidate decodes the candidate carried by a candidate message.
func (m *Message) ICECandidate() (webrtc.ICECandidateInit, error) {
	if m.Type != MessageTypeICECandidate {
		return webrtc.ICECandidateInit{}, ErrUnexpectedFormat
	}

	var candidateMsg ICECandidateMessage
	if err := json.Unmarshal(m.Data, &candidateMsg); err != nil {
		return webrtc.ICECandidateInit{}, fmt.Errorf("failed to unmarshal candidate: %w", err)
	}

	return candidateMsg.Candidate, nil
}

// Hangup decodes the reason carried by a hangup message.
func (m *Message) Hangup() (HangupMessage, error) {
	if m.Type != MessageTypeHangup {
		return HangupMessage{}, ErrUnexpectedFormat
	}

	var hangup HangupMessage
	if len(m.Data) == 0 {
		return hangup, nil
	}
	if err := json.Unmarshal(m.Data, &hangup); err != nil {
		return HangupMessage{}, fmt.Errorf("failed to unmarshal hangup: %w", err)
	}

	return hangup, nil
}

func Encode(m *Message) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses an envelope and rejects types outside the known set.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	switch m.Type {
	case MessageTypeOffer, MessageTypeAnswer, MessageTypeICECandidate, MessageTypeHangup, MessageTypeJoin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}

	if m.SenderID == "" {
		return nil, ErrEmptySenderID
	}

	return &m, nil
}
