package webrtc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/pion/ice/v4"
	"github.com/pion/interceptor"
	"github.com/pion/rtcp"
	"github.com/pion/transport/v3"
	"github.com/pion/webrtc/v4"
)

var (
	ErrClosed         = errors.New("peer connection closed")
	ErrNoVideoSender  = errors.New("no video sender")
	ErrTracksAttached = errors.New("local tracks already attached")
)

// PeerConnectionOptions represents options for peer connection
type PeerConnectionOptions struct {
	ICEServers []webrtc.ICEServer

	ICEDisconnectedTimeout time.Duration
	ICEFailedTimeout       time.Duration
	ICEKeepaliveInterval   time.Duration

	// DisableMDNS stops host candidates from being hidden behind .local names.
	DisableMDNS bool

	// Net replaces the host network stack. Tests plug in a virtual network.
	Net transport.Net

	// RegisterCodecs populates the media engine. Defaults to the pion
	// default codecs.
	RegisterCodecs func(*webrtc.MediaEngine) error
}

// DefaultPeerConnectionOptions returns default options
func DefaultPeerConnectionOptions() PeerConnectionOptions {
	return PeerConnectionOptions{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
		ICEDisconnectedTimeout: 5 * time.Second,
		ICEFailedTimeout:       25 * time.Second,
		ICEKeepaliveInterval:   2 * time.Second,
	}
}

// PeerConnection wraps a WebRTC peer connection. Remote candidates that
// arrive before the remote description are held in FIFO order and applied
// once it is set.
type PeerConnection struct {
	pc      *webrtc.PeerConnection
	options PeerConnectionOptions

	videoSender *webrtc.RTPSender
	attached    bool

	pendingCandidates deque.Deque[webrtc.ICECandidateInit]
	candidatesMu      sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// NewPeerConnection creates a new peer connection
func NewPeerConnection(options PeerConnectionOptions) (*PeerConnection, error) {
	api, err := newAPI(options)
	if err != nil {
		return nil, err
	}

	pc, err := api.NewPeerConnection(webrtc.Configuration{
		ICEServers: options.ICEServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create peer connection: %w", err)
	}

	return &PeerConnection{
		pc:      pc,
		options: options,
	}, nil
}

func newAPI(options PeerConnectionOptions) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}

	register := options.RegisterCodecs
	if register == nil {
		register = func(m *webrtc.MediaEngine) error { return m.RegisterDefaultCodecs() }
	}
	if err := register(m); err != nil {
		return nil, fmt.Errorf("failed to register codecs: %w", err)
	}

	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, registry); err != nil {
		return nil, fmt.Errorf("failed to register interceptors: %w", err)
	}

	se := webrtc.SettingEngine{}
	if options.ICEDisconnectedTimeout > 0 && options.ICEFailedTimeout > 0 && options.ICEKeepaliveInterval > 0 {
		se.SetICETimeouts(options.ICEDisconnectedTimeout, options.ICEFailedTimeout, options.ICEKeepaliveInterval)
	}
	if options.DisableMDNS {
		se.SetICEMulticastDNSMode(ice.MulticastDNSModeDisabled)
	}
	if options.Net != nil {
		se.SetNet(options.Net)
	}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(registry),
		webrtc.WithSettingEngine(se),
	), nil
}

// AttachLocalTracks adds one transceiver per kind. A missing camera still
// gets a send-capable video transceiver so a camera enabled later can be
// swapped in with ReplaceVideoTrack. A missing microphone gets a
// receive-only audio transceiver.
func (p *PeerConnection) AttachLocalTracks(tracks []webrtc.TrackLocal) error {
	if p.attached {
		return ErrTracksAttached
	}
	p.attached = true

	var video, audio webrtc.TrackLocal
	for _, t := range tracks {
		switch t.Kind() {
		case webrtc.RTPCodecTypeVideo:
			video = t
		case webrtc.RTPCodecTypeAudio:
			audio = t
		}
	}

	sendrecv := webrtc.RTPTransceiverInit{Direction: webrtc.RTPTransceiverDirectionSendrecv}

	var (
		tr  *webrtc.RTPTransceiver
		err error
	)
	if video != nil {
		tr, err = p.pc.AddTransceiverFromTrack(video, sendrecv)
	} else {
		tr, err = p.pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo, sendrecv)
	}
	if err != nil {
		return fmt.Errorf("failed to add video transceiver: %w", err)
	}
	p.videoSender = tr.Sender()
	go drainRTCP(p.videoSender)

	if audio != nil {
		tr, err = p.pc.AddTransceiverFromTrack(audio, sendrecv)
		if err == nil {
			go drainRTCP(tr.Sender())
		}
	} else {
		_, err = p.pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to add audio transceiver: %w", err)
	}

	return nil
}

// ReplaceVideoTrack swaps the outgoing camera track without renegotiation.
func (p *PeerConnection) ReplaceVideoTrack(track webrtc.TrackLocal) error {
	if p.videoSender == nil {
		return ErrNoVideoSender
	}

	if err := p.videoSender.ReplaceTrack(track); err != nil {
		return fmt.Errorf("failed to replace video track: %w", err)
	}

	return nil
}

// drainRTCP reads incoming RTCP so interceptors such as NACK keep working.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

// Close closes the peer connection
func (p *PeerConnection) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.pc.Close()
	})
	return p.closeErr
}

// CreateOffer creates an SDP offer and sets it as the local description.
// Candidates trickle out through OnICECandidate.
func (p *PeerConnection) CreateOffer() (webrtc.SessionDescription, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to create offer: %w", err)
	}

	if err := p.pc.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to set local description: %w", err)
	}

	return offer, nil
}

// CreateAnswer creates an SDP answer
func (p *PeerConnection) CreateAnswer() (webrtc.SessionDescription, error) {
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to create answer: %w", err)
	}

	if err := p.pc.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("failed to set local description: %w", err)
	}

	return answer, nil
}

// SetRemoteDescription sets the remote SDP
func (p *PeerConnection) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	if err := p.pc.SetRemoteDescription(sdp); err != nil {
		return fmt.Errorf("failed to set remote description: %w", err)
	}

	p.processPendingCandidates()

	return nil
}

// AddICECandidate adds an ICE candidate
func (p *PeerConnection) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	p.candidatesMu.Lock()
	if p.pc.RemoteDescription() == nil {
		p.pendingCandidates.PushBack(candidate)
		p.candidatesMu.Unlock()
		return nil
	}
	p.candidatesMu.Unlock()

	if err := p.pc.AddICECandidate(candidate); err != nil {
		return fmt.Errorf("failed to add ICE candidate: %w", err)
	}

	return nil
}

// PendingCandidates returns the number of buffered remote candidates.
func (p *PeerConnection) PendingCandidates() int {
	p.candidatesMu.Lock()
	defer p.candidatesMu.Unlock()
	return p.pendingCandidates.Len()
}

// processPendingCandidates processes queued ICE candidates
func (p *PeerConnection) processPendingCandidates() {
	p.candidatesMu.Lock()
	candidates := make([]webrtc.ICECandidateInit, 0, p.pendingCandidates.Len())
	for p.pendingCandidates.Len() > 0 {
		candidates = append(candidates, p.pendingCandidates.PopFront())
	}
	p.candidatesMu.Unlock()

	for _, candidate := range candidates {
		if err := p.pc.AddICECandidate(candidate); err != nil {
			slog.Warn("failed to add buffered ICE candidate",
				slog.String("candidate", candidate.Candidate),
				slog.String("error", err.Error()),
			)
		}
	}
}

// OnICECandidate reports local candidates. The end-of-gathering nil
// candidate is not forwarded.
func (p *PeerConnection) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	p.pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		fn(c.ToJSON())
	})
}

// OnTrack reports remote tracks wrapped for reading with statistics.
func (p *PeerConnection) OnTrack(fn func(RemoteTrack)) {
	p.pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		fn(newRemoteTrack(track, receiver))
	})
}

func (p *PeerConnection) OnConnectionStateChange(fn func(webrtc.PeerConnectionState)) {
	p.pc.OnConnectionStateChange(fn)
}

// RequestKeyFrame sends a picture loss indication for the given remote
// video stream.
func (p *PeerConnection) RequestKeyFrame(ssrc webrtc.SSRC) error {
	return p.pc.WriteRTCP([]rtcp.Packet{
		&rtcp.PictureLossIndication{MediaSSRC: uint32(ssrc)},
	})
}

func (p *PeerConnection) ConnectionState() webrtc.PeerConnectionState {
	return p.pc.ConnectionState()
}

func (p *PeerConnection) LocalDescriptionSet() bool {
	return p.pc.LocalDescription() != nil
}

func (p *PeerConnection) RemoteDescriptionSet() bool {
	return p.pc.RemoteDescription() != nil
}
