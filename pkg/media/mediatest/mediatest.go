// Package mediatest provides in-memory capture tracks and sources for tests
// that must not touch real devices.
package mediatest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HMasataka/telecall/pkg/media"
	"github.com/pion/webrtc/v4"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
)

var _ media.Track = (*Track)(nil)

// Track is a sample-based track. Stop counts calls so tests can check that a
// track was released exactly once.
type Track struct {
	local *webrtc.TrackLocalStaticSample
	kind  webrtc.RTPCodecType

	enabled atomic.Bool
	stops   atomic.Int32
}

func NewTrack(kind webrtc.RTPCodecType, id string) *Track {
	capability := webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
	if kind == webrtc.RTPCodecTypeVideo {
		capability = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
	}

	local, err := webrtc.NewTrackLocalStaticSample(capability, id, "mediatest")
	if err != nil {
		panic(err)
	}

	t := &Track{local: local, kind: kind}
	t.enabled.Store(true)
	return t
}

func (t *Track) ID() string                { return t.local.ID() }
func (t *Track) Kind() webrtc.RTPCodecType { return t.kind }
func (t *Track) Enabled() bool             { return t.enabled.Load() }
func (t *Track) SetEnabled(enabled bool)   { t.enabled.Store(enabled) }
func (t *Track) Local() webrtc.TrackLocal  { return t.local }
func (t *Track) Stops() int                { return int(t.stops.Load()) }
func (t *Track) Stopped() bool             { return t.Stops() > 0 }

func (t *Track) Stop() error {
	t.stops.Add(1)
	return nil
}

// Pump writes dummy samples until ctx is done so the remote side receives
// RTP and fires its track handler.
func (t *Track) Pump(ctx context.Context) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	payload := []byte{0x10, 0x00, 0x00, 0x00, 0x9d, 0x01, 0x2a}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.local.WriteSample(pionmedia.Sample{Data: payload, Duration: 20 * time.Millisecond}); err != nil {
				return
			}
		}
	}
}

var _ media.Source = (*Source)(nil)

// Source hands out fresh Tracks for every request, or Err when set.
type Source struct {
	mu      sync.Mutex
	Err     error
	Devices []media.DeviceInfo

	calls  []media.Constraints
	tracks []*Track
}

func (s *Source) GetUserMedia(ctx context.Context, constraints media.Constraints) ([]media.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, constraints)
	if s.Err != nil {
		return nil, s.Err
	}

	var tracks []media.Track
	if constraints.Video {
		t := NewTrack(webrtc.RTPCodecTypeVideo, fmt.Sprintf("video-%d", len(s.calls)))
		s.tracks = append(s.tracks, t)
		tracks = append(tracks, t)
	}
	if constraints.Audio {
		t := NewTrack(webrtc.RTPCodecTypeAudio, fmt.Sprintf("audio-%d", len(s.calls)))
		s.tracks = append(s.tracks, t)
		tracks = append(tracks, t)
	}

	return tracks, nil
}

func (s *Source) EnumerateDevices(ctx context.Context) ([]media.DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Devices, nil
}

// Calls returns the constraints of every GetUserMedia request so far.
func (s *Source) Calls() []media.Constraints {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]media.Constraints, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// Tracks returns every track handed out so far.
func (s *Source) Tracks() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks := make([]*Track, len(s.tracks))
	copy(tracks, s.tracks)
	return tracks
}
