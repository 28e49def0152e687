package call_test

import (
	"testing"

	"github.com/HMasataka/telecall/pkg/call"
	"github.com/stretchr/testify/assert"
)

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from call.State
		to   call.State
		want bool
	}{
		{"開始", call.StateIdle, call.StateAcquiringMedia, true},
		{"開始前の終了", call.StateIdle, call.StateEnded, true},
		{"取得失敗", call.StateAcquiringMedia, call.StateFailed, true},
		{"ループバックは直接アクティブ", call.StateAcquiringMedia, call.StateActive, true},
		{"接続", call.StateSignaling, call.StateConnected, true},
		{"接続後は失敗にならない", call.StateConnected, call.StateFailed, false},
		{"アクティブから終了処理", call.StateActive, call.StateEnding, true},
		{"アクティブから直接終了しない", call.StateActive, call.StateEnded, false},
		{"終了後は遷移しない", call.StateEnded, call.StateIdle, false},
		{"失敗後は遷移しない", call.StateFailed, call.StateEnding, false},
		{"後戻りしない", call.StateSignaling, call.StateAcquiringMedia, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestState_ValidateTransition(t *testing.T) {
	assert.NoError(t, call.StateIdle.ValidateTransition(call.StateAcquiringMedia))

	err := call.StateEnded.ValidateTransition(call.StateActive)
	assert.ErrorIs(t, err, call.ErrInvalidTransition)
	assert.ErrorContains(t, err, "ended -> active")
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, call.StateEnded.Terminal())
	assert.True(t, call.StateFailed.Terminal())
	assert.False(t, call.StateEnding.Terminal())
	assert.False(t, call.StateIdle.Terminal())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "acquiring_media", call.StateAcquiringMedia.String())
	assert.Equal(t, "unknown", call.State(99).String())
	assert.Equal(t, "responder", call.RoleResponder.String())
	assert.Equal(t, "loopback", call.ModeLoopback.String())
	assert.Equal(t, "background", call.VisibilityBackground.String())
}
