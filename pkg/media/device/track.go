package device

import (
	"image"
	"sync/atomic"

	"github.com/HMasataka/telecall/pkg/media"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/io/audio"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/wave"
	"github.com/pion/webrtc/v4"
)

var _ media.Track = (*track)(nil)

// track keeps the device open while disabled: frames still flow through the
// encoder but are replaced with black video or silence.
type track struct {
	mediadevices.Track
	enabled atomic.Bool
}

func wrap(t mediadevices.Track) *track {
	w := &track{Track: t}
	w.enabled.Store(true)

	switch src := t.(type) {
	case *mediadevices.VideoTrack:
		src.Transform(w.blackout)
	case *mediadevices.AudioTrack:
		src.Transform(w.mute)
	}

	return w
}

func (t *track) Enabled() bool           { return t.enabled.Load() }
func (t *track) SetEnabled(enabled bool) { t.enabled.Store(enabled) }
func (t *track) Stop() error             { return t.Close() }
func (t *track) Local() webrtc.TrackLocal { return t.Track }

func (t *track) blackout(r video.Reader) video.Reader {
	return video.ReaderFunc(func() (image.Image, func(), error) {
		img, release, err := r.Read()
		if err != nil || t.enabled.Load() {
			return img, release, err
		}

		black := image.NewYCbCr(img.Bounds(), image.YCbCrSubsampleRatio420)
		for i := range black.Cb {
			black.Cb[i] = 128
		}
		for i := range black.Cr {
			black.Cr[i] = 128
		}

		return black, release, nil
	})
}

func (t *track) mute(r audio.Reader) audio.Reader {
	return audio.ReaderFunc(func() (wave.Audio, func(), error) {
		chunk, release, err := r.Read()
		if err != nil || t.enabled.Load() {
			return chunk, release, err
		}

		return wave.NewInt16Interleaved(chunk.ChunkInfo()), release, nil
	})
}
