package media

import (
	"context"

	"github.com/pion/webrtc/v4"
)

// Track is one captured camera or microphone track. Disabling a track keeps
// the device open and makes it produce black frames or silence.
type Track interface {
	ID() string
	Kind() webrtc.RTPCodecType
	Enabled() bool
	SetEnabled(enabled bool)
	// Stop releases the underlying device. Calling it more than once is
	// allowed.
	Stop() error
	// Local returns the track in the form a peer connection sends.
	Local() webrtc.TrackLocal
}

type DeviceKind int

const (
	DeviceKindVideoInput DeviceKind = iota
	DeviceKindAudioInput
)

type DeviceInfo struct {
	DeviceID string
	Label    string
	Kind     DeviceKind
}

// Sourceはカメラ・マイクへのアクセスを抽象化したインターフェースです。
// GetUserMediaは要求された種類のトラックを取得し、失敗時は取得済みのトラックを返しません。
//
//go:generate mockgen -source source.go -destination mock/source.go
type Source interface {
	GetUserMedia(ctx context.Context, constraints Constraints) ([]Track, error)
	EnumerateDevices(ctx context.Context) ([]DeviceInfo, error)
}
