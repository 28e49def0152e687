// Package presenter is a headless presentation sink. It drains every
// remote track so the peer connection keeps flowing and reports per-track
// statistics instead of rendering.
package presenter

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/HMasataka/telecall/pkg/call"
	"github.com/HMasataka/telecall/pkg/media"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

var _ call.Presenter = (*Sink)(nil)

// TrackStats is what the sink has seen of one track.
type TrackStats struct {
	ID      string
	Kind    webrtc.RTPCodecType
	Remote  bool
	Packets uint64
	Bytes   uint64
	// Frames counts RTP marker bits, which end a video frame.
	Frames uint64
	Lost   uint64
	Codec  string
	Ended  bool
}

type view struct {
	mu    sync.Mutex
	stats TrackStats
}

func (v *view) snapshot() TrackStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

func (v *view) record(pkt *rtp.Packet) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stats.Packets++
	v.stats.Bytes += uint64(len(pkt.Payload))
	if pkt.Marker {
		v.stats.Frames++
	}
}

type Sink struct {
	mu    sync.Mutex
	views []*view
	wg    sync.WaitGroup

	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// New returns a sink that logs statistics every interval. A zero interval
// disables periodic logging.
func New(interval time.Duration) *Sink {
	s := &Sink{
		interval: interval,
		done:     make(chan struct{}),
	}

	if interval > 0 {
		s.wg.Add(1)
		go s.report()
	}

	return s
}

func (s *Sink) AttachLocal(track media.Track) {
	s.add(&view{stats: TrackStats{ID: track.ID(), Kind: track.Kind()}})

	slog.Info("local track attached", slog.String("track_id", track.ID()), slog.String("kind", track.Kind().String()))
}

// AttachRemote starts draining track when it carries RTP. Other tracks,
// such as local ones mirrored in loopback, are only listed.
func (s *Sink) AttachRemote(track call.Track) {
	v := &view{stats: TrackStats{ID: track.ID(), Kind: track.Kind(), Remote: true}}

	remote, ok := track.(pkgwebrtc.RemoteTrack)
	if ok {
		v.stats.Codec = remote.Codec().MimeType
	}
	s.add(v)

	slog.Info("remote track attached", slog.String("track_id", track.ID()), slog.String("kind", track.Kind().String()))

	if !ok {
		return
	}

	s.wg.Add(1)
	go s.drain(remote, v)
}

func (s *Sink) add(v *view) {
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
}

func (s *Sink) drain(track pkgwebrtc.RemoteTrack, v *view) {
	defer s.wg.Done()

	for {
		pkt, err := track.ReadRTP()
		if err != nil {
			if !errors.Is(err, pkgwebrtc.ErrRemoteTrackClosed) {
				slog.Warn("failed to read remote track", slog.String("track_id", track.ID()), slog.String("error", err.Error()))
			}
			break
		}
		v.record(pkt)
	}

	stats := track.Stats()

	v.mu.Lock()
	v.stats.Ended = true
	v.stats.Lost = stats.PacketsLost
	v.mu.Unlock()

	slog.Info("remote track ended",
		slog.String("track_id", track.ID()),
		slog.Uint64("packets", stats.PacketsReceived),
		slog.Uint64("lost", stats.PacketsLost),
	)
}

// Tracks returns the statistics of every attached track in attach order.
func (s *Sink) Tracks() []TrackStats {
	s.mu.Lock()
	views := make([]*view, len(s.views))
	copy(views, s.views)
	s.mu.Unlock()

	return lo.Map(views, func(v *view, _ int) TrackStats {
		return v.snapshot()
	})
}

// Remote returns the statistics of the remote tracks only.
func (s *Sink) Remote() []TrackStats {
	return lo.Filter(s.Tracks(), func(t TrackStats, _ int) bool {
		return t.Remote
	})
}

func (s *Sink) report() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			for _, t := range s.Remote() {
				slog.Info("remote track stats",
					slog.String("track_id", t.ID),
					slog.String("codec", t.Codec),
					slog.Uint64("packets", t.Packets),
					slog.Uint64("bytes", t.Bytes),
					slog.Uint64("frames", t.Frames),
				)
			}
		}
	}
}

// Close stops reporting and waits for every remote track to end. Tracks
// end when their peer connection is closed.
func (s *Sink) Close() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
