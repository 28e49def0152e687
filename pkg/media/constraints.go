package media

import (
	"fmt"

	"github.com/samber/lo"
)

type Orientation int

const (
	OrientationAny Orientation = iota
	OrientationLandscape
	OrientationPortrait
)

func (o Orientation) String() string {
	switch o {
	case OrientationLandscape:
		return "landscape"
	case OrientationPortrait:
		return "portrait"
	default:
		return "any"
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "any":
		*o = OrientationAny
	case "landscape":
		*o = OrientationLandscape
	case "portrait":
		*o = OrientationPortrait
	default:
		return fmt.Errorf("unknown orientation %q", text)
	}
	return nil
}

// Constraints describes what to capture. Width, Height, FrameRate and
// Orientation are preferences: zero values mean no preference, and a
// Manager relaxes them before giving up on a device.
type Constraints struct {
	Video       bool        `toml:"video"`
	Audio       bool        `toml:"audio"`
	Width       int         `toml:"width"`
	Height      int         `toml:"height"`
	FrameRate   float64     `toml:"framerate"`
	Orientation Orientation `toml:"orientation"`
}

func DefaultConstraints() Constraints {
	return Constraints{
		Video:       true,
		Audio:       true,
		Width:       1280,
		Height:      720,
		FrameRate:   30,
		Orientation: OrientationLandscape,
	}
}

// VideoOnly returns c restricted to the camera.
func (c Constraints) VideoOnly() Constraints {
	c.Video = true
	c.Audio = false
	return c
}

func (c Constraints) Empty() bool {
	return !c.Video && !c.Audio
}

// Dimensions returns the preferred width and height after applying the
// orientation preference.
func (c Constraints) Dimensions() (width, height int) {
	width, height = c.Width, c.Height
	switch c.Orientation {
	case OrientationPortrait:
		if width > height {
			width, height = height, width
		}
	case OrientationLandscape:
		if height > width {
			width, height = height, width
		}
	}
	return width, height
}

// fallbacks lists c followed by progressively relaxed variants: frame rate
// first, then resolution, then orientation.
func (c Constraints) fallbacks() []Constraints {
	if !c.Video {
		return []Constraints{c}
	}

	noRate := c
	noRate.FrameRate = 0

	noSize := noRate
	noSize.Width = 0
	noSize.Height = 0

	anything := noSize
	anything.Orientation = OrientationAny

	return lo.Uniq([]Constraints{c, noRate, noSize, anything})
}
