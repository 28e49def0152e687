// Package media acquires and releases the local camera and microphone for a
// call session.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

type PermissionState int

const (
	// PermissionUnavailable means no capture device was enumerated.
	PermissionUnavailable PermissionState = iota
	// PermissionPrompt means devices exist but labels are hidden, which is
	// how platforms report that access has not been granted yet.
	PermissionPrompt
	PermissionGranted
)

func (p PermissionState) String() string {
	switch p {
	case PermissionPrompt:
		return "prompt"
	case PermissionGranted:
		return "granted"
	default:
		return "unavailable"
	}
}

type Manager struct {
	source Source
}

func NewManager(source Source) *Manager {
	return &Manager{source: source}
}

// Acquire captures the tracks named by constraints and wraps them in a
// Handle. On failure nothing stays open.
func (m *Manager) Acquire(ctx context.Context, constraints Constraints) (*Handle, error) {
	tracks, err := m.acquire(ctx, constraints)
	if err != nil {
		return nil, err
	}

	slog.Info("local media acquired",
		slog.Int("tracks", len(tracks)),
		slog.Bool("video", constraints.Video),
		slog.Bool("audio", constraints.Audio),
	)

	return newHandle(constraints, tracks, m.acquire), nil
}

func (m *Manager) acquire(ctx context.Context, constraints Constraints) ([]Track, error) {
	if constraints.Empty() {
		return nil, ErrNothingRequested
	}

	var lastErr error
	for _, c := range constraints.fallbacks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tracks, err := m.source.GetUserMedia(ctx, c)
		if err != nil {
			stopTracks(tracks)
			lastErr = err
			if errors.Is(err, ErrConstraintsUnsatisfiable) {
				slog.Debug("relaxing capture constraints",
					slog.Int("width", c.Width),
					slog.Int("height", c.Height),
					slog.Float64("framerate", c.FrameRate),
				)
				continue
			}
			return nil, err
		}

		if err := verifyTracks(c, tracks); err != nil {
			stopTracks(tracks)
			return nil, err
		}

		return tracks, nil
	}

	return nil, lastErr
}

// verifyTracks rejects a capture that lacks a requested kind so a partial
// capture is never handed out.
func verifyTracks(c Constraints, tracks []Track) error {
	hasKind := func(kind webrtc.RTPCodecType) bool {
		return lo.SomeBy(tracks, func(t Track) bool {
			return t.Kind() == kind
		})
	}

	if c.Video && !hasKind(webrtc.RTPCodecTypeVideo) {
		return fmt.Errorf("%w: no video track", ErrDeviceNotFound)
	}
	if c.Audio && !hasKind(webrtc.RTPCodecTypeAudio) {
		return fmt.Errorf("%w: no audio track", ErrDeviceNotFound)
	}

	return nil
}

// Permission is an advisory pre-flight check. Acquire remains the source of
// truth.
func (m *Manager) Permission(ctx context.Context) (PermissionState, error) {
	devices, err := m.source.EnumerateDevices(ctx)
	if err != nil {
		return PermissionUnavailable, err
	}

	if len(devices) == 0 {
		return PermissionUnavailable, nil
	}

	labelled := lo.SomeBy(devices, func(d DeviceInfo) bool {
		return d.Label != ""
	})
	if !labelled {
		return PermissionPrompt, nil
	}

	return PermissionGranted, nil
}

func (m *Manager) Devices(ctx context.Context) ([]DeviceInfo, error) {
	return m.source.EnumerateDevices(ctx)
}
