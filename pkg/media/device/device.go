// Package device captures camera and microphone tracks with pion/mediadevices.
package device

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"syscall"

	"github.com/HMasataka/telecall/pkg/media"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

var _ media.Source = (*Source)(nil)

// VideoBitRate is the VP8 target bitrate.
const VideoBitRate = 1_500_000

type Source struct {
	codecSelector *mediadevices.CodecSelector
}

// NewSource builds a capture source encoding video as VP8 and audio as Opus.
func NewSource() (*Source, error) {
	vpxParams, err := vpx.NewVP8Params()
	if err != nil {
		return nil, fmt.Errorf("failed to create vp8 params: %w", err)
	}
	vpxParams.BitRate = VideoBitRate

	opusParams, err := opus.NewParams()
	if err != nil {
		return nil, fmt.Errorf("failed to create opus params: %w", err)
	}

	return &Source{
		codecSelector: mediadevices.NewCodecSelector(
			mediadevices.WithVideoEncoders(&vpxParams),
			mediadevices.WithAudioEncoders(&opusParams),
		),
	}, nil
}

// PopulateMediaEngine registers the codecs this source produces.
func (s *Source) PopulateMediaEngine(m *webrtc.MediaEngine) {
	s.codecSelector.Populate(m)
}

func (s *Source) GetUserMedia(ctx context.Context, constraints media.Constraints) ([]media.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.checkDevices(constraints); err != nil {
		return nil, err
	}

	streamConstraints := mediadevices.MediaStreamConstraints{Codec: s.codecSelector}
	if constraints.Video {
		width, height := constraints.Dimensions()
		streamConstraints.Video = func(c *mediadevices.MediaTrackConstraints) {
			if width > 0 {
				c.Width = prop.IntExact(width)
			}
			if height > 0 {
				c.Height = prop.IntExact(height)
			}
			if constraints.FrameRate > 0 {
				c.FrameRate = prop.FloatExact(float32(constraints.FrameRate))
			}
		}
	}
	if constraints.Audio {
		streamConstraints.Audio = func(_ *mediadevices.MediaTrackConstraints) {}
	}

	stream, err := mediadevices.GetUserMedia(streamConstraints)
	if err != nil {
		return nil, classify(err)
	}

	tracks := make([]media.Track, 0, len(stream.GetTracks()))
	for _, t := range stream.GetTracks() {
		tracks = append(tracks, wrap(t))
	}

	// GetUserMedia may have been slow; do not hand out tracks nobody waits for.
	if err := ctx.Err(); err != nil {
		for _, t := range tracks {
			_ = t.Stop()
		}
		return nil, err
	}

	return tracks, nil
}

func (s *Source) checkDevices(constraints media.Constraints) error {
	devices := mediadevices.EnumerateDevices()

	has := func(kind mediadevices.MediaDeviceType) bool {
		return lo.SomeBy(devices, func(d mediadevices.MediaDeviceInfo) bool {
			return d.Kind == kind
		})
	}

	if constraints.Video && !has(mediadevices.VideoInput) {
		return fmt.Errorf("%w: no camera", media.ErrDeviceNotFound)
	}
	if constraints.Audio && !has(mediadevices.AudioInput) {
		return fmt.Errorf("%w: no microphone", media.ErrDeviceNotFound)
	}

	return nil
}

func (s *Source) EnumerateDevices(ctx context.Context) ([]media.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var infos []media.DeviceInfo
	for _, d := range mediadevices.EnumerateDevices() {
		info := media.DeviceInfo{DeviceID: d.DeviceID, Label: d.Label}
		switch d.Kind {
		case mediadevices.VideoInput:
			info.Kind = media.DeviceKindVideoInput
		case mediadevices.AudioInput:
			info.Kind = media.DeviceKindAudioInput
		default:
			continue
		}
		infos = append(infos, info)
	}

	slog.Debug("capture devices enumerated", slog.Int("count", len(infos)))

	return infos, nil
}

// classify maps driver errors onto the capture error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%w: %w", media.ErrPermissionDenied, err)
	case errors.Is(err, syscall.EBUSY):
		return fmt.Errorf("%w: %w", media.ErrDeviceBusy, err)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENODEV):
		return fmt.Errorf("%w: %w", media.ErrDeviceNotFound, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %w", media.ErrPermissionDenied, err)
	case strings.Contains(msg, "busy"):
		return fmt.Errorf("%w: %w", media.ErrDeviceBusy, err)
	case strings.Contains(msg, "constraint"), strings.Contains(msg, "best driver"):
		return fmt.Errorf("%w: %w", media.ErrConstraintsUnsatisfiable, err)
	}

	return fmt.Errorf("%w: %w", media.ErrDeviceNotFound, err)
}
