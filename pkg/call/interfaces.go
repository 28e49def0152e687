package call

import (
	"context"

	"github.com/HMasataka/telecall/pkg/media"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/pion/webrtc/v4"
)

//go:generate mockgen -source interfaces.go -destination mock/interfaces.go

// Capturer は端末のカメラとマイクを取得する。
type Capturer interface {
	Acquire(ctx context.Context, constraints media.Constraints) (*media.Handle, error)
}

var _ Capturer = (*media.Manager)(nil)

// PeerConnection is the media transport driven by the Negotiator.
type PeerConnection interface {
	AttachLocalTracks(tracks []webrtc.TrackLocal) error
	ReplaceVideoTrack(track webrtc.TrackLocal) error
	CreateOffer() (webrtc.SessionDescription, error)
	CreateAnswer() (webrtc.SessionDescription, error)
	SetRemoteDescription(sdp webrtc.SessionDescription) error
	AddICECandidate(candidate webrtc.ICECandidateInit) error
	OnICECandidate(fn func(webrtc.ICECandidateInit))
	OnTrack(fn func(pkgwebrtc.RemoteTrack))
	OnConnectionStateChange(fn func(webrtc.PeerConnectionState))
	RequestKeyFrame(ssrc webrtc.SSRC) error
	Close() error
}

var _ PeerConnection = (*pkgwebrtc.PeerConnection)(nil)

// PeerConnectionFactory creates one PeerConnection per live session.
type PeerConnectionFactory interface {
	NewPeerConnection() (PeerConnection, error)
}

// PeerConnectionFactoryFunc adapts a function to PeerConnectionFactory.
type PeerConnectionFactoryFunc func() (PeerConnection, error)

func (f PeerConnectionFactoryFunc) NewPeerConnection() (PeerConnection, error) {
	return f()
}

// Track is what a Presenter renders: a local capture track or a remote one.
type Track interface {
	ID() string
	Kind() webrtc.RTPCodecType
}

// Presenter はローカル映像とリモート映像の描画先。
type Presenter interface {
	AttachLocal(track media.Track)
	AttachRemote(track Track)
}
