package sdpdebug

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
)

// Media summarises one m= section.
type Media struct {
	Kind      string
	Mid       string
	Direction string
	Codecs    []string
}

// Summary is a log-friendly digest of a session description.
type Summary struct {
	Type       webrtc.SDPType
	Media      []Media
	Candidates int
}

var _ slog.LogValuer = Summary{}

// Summarize parses sd and extracts the parts worth logging during
// negotiation: media kinds, directions, codecs and inline candidates.
func Summarize(sd webrtc.SessionDescription) (Summary, error) {
	parsed := &sdp.SessionDescription{}
	if err := parsed.UnmarshalString(sd.SDP); err != nil {
		return Summary{}, fmt.Errorf("failed to parse sdp: %w", err)
	}

	summary := Summary{Type: sd.Type}
	for _, md := range parsed.MediaDescriptions {
		m := Media{
			Kind:      md.MediaName.Media,
			Direction: direction(md),
		}
		if mid, ok := md.Attribute(sdp.AttrKeyMID); ok {
			m.Mid = mid
		}
		for _, a := range md.Attributes {
			switch a.Key {
			case "rtpmap":
				if _, name, ok := strings.Cut(a.Value, " "); ok {
					m.Codecs = append(m.Codecs, name)
				}
			case sdp.AttrKeyCandidate:
				summary.Candidates++
			}
		}
		summary.Media = append(summary.Media, m)
	}

	return summary, nil
}

func direction(md *sdp.MediaDescription) string {
	for _, key := range []string{
		sdp.AttrKeySendRecv,
		sdp.AttrKeySendOnly,
		sdp.AttrKeyRecvOnly,
		sdp.AttrKeyInactive,
	} {
		if _, ok := md.Attribute(key); ok {
			return key
		}
	}
	return sdp.AttrKeySendRecv
}

func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", s.Type.String()),
		slog.Int("candidates", s.Candidates),
	}
	for i, m := range s.Media {
		attrs = append(attrs, slog.Group(fmt.Sprintf("m%d", i),
			slog.String("kind", m.Kind),
			slog.String("mid", m.Mid),
			slog.String("direction", m.Direction),
			slog.String("codecs", strings.Join(m.Codecs, ",")),
		))
	}
	return slog.GroupValue(attrs...)
}

// Log writes a debug record describing sd. Parse failures are logged
// rather than returned.
func Log(label string, sd webrtc.SessionDescription) {
	summary, err := Summarize(sd)
	if err != nil {
		slog.Warn("failed to summarize sdp", slog.String("label", label), slog.String("error", err.Error()))
		return
	}
	slog.Debug("sdp", slog.String("label", label), slog.Any("summary", summary))
}

// Dump writes the SDP under dir so what a peer proposed can be inspected
// after the fact.
func Dump(dir, label string, sd webrtc.SessionDescription) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create sdp dump dir: %w", err)
	}

	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, label)

	ts := time.Now().Format("20060102-150405.000")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.sdp", ts, sanitized, sd.Type.String()))

	if err := os.WriteFile(path, []byte(sd.SDP), 0o644); err != nil {
		return "", fmt.Errorf("failed to write sdp dump: %w", err)
	}

	return path, nil
}
