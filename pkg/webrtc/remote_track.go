package webrtc

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

var ErrRemoteTrackClosed = errors.New("remote track closed")

type RemoteTrackStats struct {
	PacketsReceived uint64
	BytesReceived   uint64
	PacketsLost     uint64
	CodecName       string
	ClockRate       uint32
}

// RemoteTrack is an incoming audio or video stream.
//
//go:generate mockgen -source remote_track.go -destination mock/remote_track.go
type RemoteTrack interface {
	ID() string
	Kind() webrtc.RTPCodecType
	SSRC() webrtc.SSRC
	Codec() webrtc.RTPCodecParameters
	ReadRTP() (*rtp.Packet, error)
	Stats() RemoteTrackStats
}

var _ RemoteTrack = (*remoteTrack)(nil)

type remoteTrack struct {
	track    *webrtc.TrackRemote
	receiver *webrtc.RTPReceiver

	mu      sync.Mutex
	stats   RemoteTrackStats
	lastSeq uint16
	started bool
}

func newRemoteTrack(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) *remoteTrack {
	return &remoteTrack{
		track:    track,
		receiver: receiver,
		stats: RemoteTrackStats{
			CodecName: track.Codec().MimeType,
			ClockRate: track.Codec().ClockRate,
		},
	}
}

func (t *remoteTrack) ID() string                       { return t.track.ID() }
func (t *remoteTrack) Kind() webrtc.RTPCodecType        { return t.track.Kind() }
func (t *remoteTrack) SSRC() webrtc.SSRC                { return t.track.SSRC() }
func (t *remoteTrack) Codec() webrtc.RTPCodecParameters { return t.track.Codec() }

// ReadRTP reads the next packet and updates the statistics. It returns
// ErrRemoteTrackClosed once the stream has ended.
func (t *remoteTrack) ReadRTP() (*rtp.Packet, error) {
	packet, _, err := t.track.ReadRTP()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrRemoteTrackClosed
		}
		return nil, fmt.Errorf("failed to read remote track data: %w", err)
	}

	t.record(packet)

	return packet, nil
}

func (t *remoteTrack) record(packet *rtp.Packet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.PacketsReceived++
	t.stats.BytesReceived += uint64(len(packet.Payload))

	if t.started {
		if gap := packet.SequenceNumber - t.lastSeq; gap > 1 && gap < 1<<15 {
			t.stats.PacketsLost += uint64(gap - 1)
		}
	}
	t.started = true
	t.lastSeq = packet.SequenceNumber
}

func (t *remoteTrack) Stats() RemoteTrackStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
