package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

type acquireFunc func(ctx context.Context, constraints Constraints) ([]Track, error)

// Handle owns the tracks acquired for one session. The enabled flags are
// independent of acquisition: disabling video keeps the camera track.
type Handle struct {
	mu sync.Mutex

	acquire     acquireFunc
	constraints Constraints

	tracks       []Track
	videoEnabled bool
	audioEnabled bool
	released     bool

	onTrackAdded []func(Track)
}

func newHandle(constraints Constraints, tracks []Track, acquire acquireFunc) *Handle {
	return &Handle{
		acquire:      acquire,
		constraints:  constraints,
		tracks:       tracks,
		videoEnabled: constraints.Video,
		audioEnabled: constraints.Audio,
	}
}

// Tracks returns a snapshot of the owned tracks.
func (h *Handle) Tracks() []Track {
	h.mu.Lock()
	defer h.mu.Unlock()

	tracks := make([]Track, len(h.tracks))
	copy(tracks, h.tracks)
	return tracks
}

func (h *Handle) VideoTrack() (Track, bool) {
	return h.track(webrtc.RTPCodecTypeVideo)
}

func (h *Handle) AudioTrack() (Track, bool) {
	return h.track(webrtc.RTPCodecTypeAudio)
}

func (h *Handle) track(kind webrtc.RTPCodecType) (Track, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return lo.Find(h.tracks, func(t Track) bool {
		return t.Kind() == kind
	})
}

func (h *Handle) VideoEnabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.videoEnabled
}

func (h *Handle) AudioEnabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.audioEnabled
}

// OnTrackAdded registers fn to be called whenever a track is merged into
// the handle after the initial acquisition.
func (h *Handle) OnTrackAdded(fn func(Track)) {
	h.mu.Lock()
	h.onTrackAdded = append(h.onTrackAdded, fn)
	h.mu.Unlock()
}

// SetVideoEnabled toggles the camera in place. When no camera track exists
// a video-only capture is made and merged with the existing audio track.
func (h *Handle) SetVideoEnabled(ctx context.Context, enabled bool) error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return ErrReleased
	}

	_, hasVideo := lo.Find(h.tracks, func(t Track) bool {
		return t.Kind() == webrtc.RTPCodecTypeVideo
	})

	if !enabled || hasVideo {
		h.videoEnabled = enabled
		h.applyEnabled(webrtc.RTPCodecTypeVideo, enabled)
		h.mu.Unlock()
		return nil
	}

	constraints := h.constraints.VideoOnly()
	h.mu.Unlock()

	added, err := h.acquire(ctx, constraints)
	if err != nil {
		return fmt.Errorf("failed to acquire camera: %w", err)
	}

	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		stopTracks(added)
		return ErrReleased
	}

	h.tracks = append(h.tracks, added...)
	h.videoEnabled = true
	h.applyEnabled(webrtc.RTPCodecTypeVideo, true)
	handlers := make([]func(Track), len(h.onTrackAdded))
	copy(handlers, h.onTrackAdded)
	h.mu.Unlock()

	slog.Info("camera track merged into media handle", slog.Int("tracks", len(added)))

	for _, t := range added {
		for _, fn := range handlers {
			fn(t)
		}
	}

	return nil
}

// SetAudioEnabled toggles the microphone in place. Enabling audio never
// triggers a new capture; without a microphone track only the flag changes.
func (h *Handle) SetAudioEnabled(enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return ErrReleased
	}

	h.audioEnabled = enabled
	h.applyEnabled(webrtc.RTPCodecTypeAudio, enabled)

	return nil
}

func (h *Handle) applyEnabled(kind webrtc.RTPCodecType, enabled bool) {
	for _, t := range h.tracks {
		if t.Kind() == kind {
			t.SetEnabled(enabled)
		}
	}
}

// Release stops every track. Only the first call has an effect.
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	tracks := h.tracks
	h.tracks = nil
	h.mu.Unlock()

	stopTracks(tracks)
}

func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func stopTracks(tracks []Track) {
	for _, t := range tracks {
		if err := t.Stop(); err != nil {
			slog.Warn("failed to stop track", slog.String("track_id", t.ID()), slog.String("error", err.Error()))
		}
	}
}
