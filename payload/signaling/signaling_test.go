package signaling_test

import (
	"encoding/json"
	"testing"

	"github.com/HMasataka/telecall/payload/signaling"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOfferMessage(t *testing.T) {
	t.Run("offerを包む", func(t *testing.T) {
		offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"}

		msg, err := signaling.NewOfferMessage("clinician", offer)
		require.NoError(t, err)

		assert.Equal(t, signaling.MessageTypeOffer, msg.Type)
		assert.Equal(t, "clinician", msg.SenderID)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.Timestamp.IsZero())

		got, err := msg.SessionDescription()
		require.NoError(t, err)
		assert.Equal(t, offer, got)
	})

	t.Run("answerを渡すとエラー", func(t *testing.T) {
		_, err := signaling.NewOfferMessage("clinician", webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer})
		assert.ErrorIs(t, err, signaling.ErrSDPTypeMismatch)
	})

	t.Run("送信者IDが空", func(t *testing.T) {
		_, err := signaling.NewOfferMessage("", webrtc.SessionDescription{Type: webrtc.SDPTypeOffer})
		assert.ErrorIs(t, err, signaling.ErrEmptySenderID)
	})
}

func TestNewAnswerMessage(t *testing.T) {
	answer := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"}

	msg, err := signaling.NewAnswerMessage("patient", answer)
	require.NoError(t, err)
	assert.Equal(t, signaling.MessageTypeAnswer, msg.Type)

	got, err := msg.SessionDescription()
	require.NoError(t, err)
	assert.Equal(t, webrtc.SDPTypeAnswer, got.Type)

	_, err = msg.ICECandidate()
	assert.ErrorIs(t, err, signaling.ErrUnexpectedFormat)
}

func TestMessage_SessionDescriptionMismatch(t *testing.T) {
	data, err := json.Marshal(signaling.SDPMessage{
		SessionDescription: webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"},
	})
	require.NoError(t, err)

	msg := &signaling.Message{Type: signaling.MessageTypeOffer, SenderID: "a", Data: data}

	_, err = msg.SessionDescription()
	assert.ErrorIs(t, err, signaling.ErrSDPTypeMismatch)
}

func TestNewICECandidateMessage(t *testing.T) {
	mid := "0"
	index := uint16(0)
	candidate := webrtc.ICECandidateInit{
		Candidate:     "candidate:1 1 udp 2130706431 10.0.0.1 5000 typ host",
		SDPMid:        &mid,
		SDPMLineIndex: &index,
	}

	msg, err := signaling.NewICECandidateMessage("patient", candidate)
	require.NoError(t, err)

	got, err := msg.ICECandidate()
	require.NoError(t, err)
	assert.Equal(t, candidate.Candidate, got.Candidate)
	require.NotNil(t, got.SDPMid)
	assert.Equal(t, "0", *got.SDPMid)
}

func TestNewHangupMessage(t *testing.T) {
	msg, err := signaling.NewHangupMessage("clinician", "ended")
	require.NoError(t, err)

	hangup, err := msg.Hangup()
	require.NoError(t, err)
	assert.Equal(t, "ended", hangup.Reason)
}

func TestNewJoinMessage(t *testing.T) {
	msg, err := signaling.NewJoinMessage("patient")
	require.NoError(t, err)
	assert.Equal(t, signaling.MessageTypeJoin, msg.Type)

	b, err := signaling.Encode(msg)
	require.NoError(t, err)

	decoded, err := signaling.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, signaling.MessageTypeJoin, decoded.Type)
	assert.Equal(t, "patient", decoded.SenderID)

	_, err = signaling.NewJoinMessage("")
	assert.ErrorIs(t, err, signaling.ErrEmptySenderID)
}

func TestMessage_IsFrom(t *testing.T) {
	msg := &signaling.Message{SenderID: "clinician"}

	assert.True(t, msg.IsFrom("clinician"))
	assert.False(t, msg.IsFrom("patient"))

	var nilMsg *signaling.Message
	assert.False(t, nilMsg.IsFrom("clinician"))
}

func TestDecode(t *testing.T) {
	t.Run("エンコードした内容を復元する", func(t *testing.T) {
		msg, err := signaling.NewHangupMessage("clinician", "")
		require.NoError(t, err)
		msg.SessionID = "appointment-1"

		b, err := signaling.Encode(msg)
		require.NoError(t, err)

		decoded, err := signaling.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, decoded.ID)
		assert.Equal(t, "appointment-1", decoded.SessionID)
		assert.Equal(t, signaling.MessageTypeHangup, decoded.Type)
	})

	t.Run("未知のタイプ", func(t *testing.T) {
		_, err := signaling.Decode([]byte(`{"type":"bogus","sender_id":"a"}`))
		assert.ErrorIs(t, err, signaling.ErrUnknownType)
	})

	t.Run("送信者なし", func(t *testing.T) {
		_, err := signaling.Decode([]byte(`{"type":"offer"}`))
		assert.ErrorIs(t, err, signaling.ErrEmptySenderID)
	})

	t.Run("不正なJSON", func(t *testing.T) {
		_, err := signaling.Decode([]byte(`{`))
		assert.Error(t, err)
	})
}
