// Package config loads the TOML configuration of the client and the relay.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/HMasataka/telecall/internal/relay"
	"github.com/HMasataka/telecall/pkg/media"
	"github.com/HMasataka/telecall/pkg/retry"
	"github.com/HMasataka/telecall/pkg/signal/wsrelay"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/pelletier/go-toml/v2"
	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

var ErrMissingRelayURL = errors.New("relay url is empty")

type Config struct {
	Participant ParticipantConfig `toml:"participant"`
	Relay       RelayConfig       `toml:"relay"`
	WebRTC      WebRTCConfig      `toml:"webrtc"`
	Media       media.Constraints `toml:"media"`
	Session     SessionConfig     `toml:"session"`
}

type ParticipantConfig struct {
	ID          string `toml:"id"`
	DisplayName string `toml:"displayname"`
}

type RelayConfig struct {
	URL              string      `toml:"url"`
	HandshakeTimeout int         `toml:"handshaketimeout"`
	RequestTimeout   int         `toml:"requesttimeout"`
	Retry            RetryConfig `toml:"retry"`
}

type RetryConfig struct {
	Attempts int `toml:"attempts"`
	// Interval and MaxBackoff are in milliseconds.
	Interval   int `toml:"interval"`
	MaxBackoff int `toml:"maxbackoff"`
}

type WebRTCConfig struct {
	ICEServers []ICEServerConfig    `toml:"iceserver"`
	MDNS       bool                 `toml:"mdns"`
	Timeouts   WebRTCTimeoutsConfig `toml:"timeouts"`
}

type ICEServerConfig struct {
	URLs       []string `toml:"urls"`
	Username   string   `toml:"username"`
	Credential string   `toml:"credential"`
}

type WebRTCTimeoutsConfig struct {
	ICEDisconnectedTimeout int `toml:"disconnected"`
	ICEFailedTimeout       int `toml:"failed"`
	ICEKeepaliveInterval   int `toml:"keepalive"`
}

type SessionConfig struct {
	// NegotiationTimeout is in seconds. Zero disables it.
	NegotiationTimeout int    `toml:"negotiationtimeout"`
	SDPDumpDir         string `toml:"sdpdump"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	rc := retry.DefaultConfig()

	return Config{
		Relay: RelayConfig{
			URL:              "ws://localhost:8080/ws",
			HandshakeTimeout: 10,
			RequestTimeout:   10,
			Retry: RetryConfig{
				Attempts:   rc.Attempts,
				Interval:   int(rc.BaseInterval / time.Millisecond),
				MaxBackoff: int(rc.MaxBackoff / time.Millisecond),
			},
		},
		WebRTC: WebRTCConfig{
			ICEServers: []ICEServerConfig{
				{URLs: []string{"stun:stun.l.google.com:19302"}},
			},
			MDNS: true,
			Timeouts: WebRTCTimeoutsConfig{
				ICEDisconnectedTimeout: 5,
				ICEFailedTimeout:       25,
				ICEKeepaliveInterval:   2,
			},
		},
		Media: media.DefaultConstraints(),
		Session: SessionConfig{
			NegotiationTimeout: 30,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	defaults := c.WebRTC.ICEServers
	c.WebRTC.ICEServers = nil

	if err := decode(path, &c); err != nil {
		return Config{}, err
	}
	if len(c.WebRTC.ICEServers) == 0 {
		c.WebRTC.ICEServers = defaults
	}
	if c.Relay.URL == "" {
		return Config{}, ErrMissingRelayURL
	}
	return c, nil
}

func decode(path string, v any) error {
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

func (c Config) PeerConnectionOptions() pkgwebrtc.PeerConnectionOptions {
	o := pkgwebrtc.DefaultPeerConnectionOptions()

	o.ICEServers = lo.Map(c.WebRTC.ICEServers, func(s ICEServerConfig, _ int) webrtc.ICEServer {
		return webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		}
	})
	o.DisableMDNS = !c.WebRTC.MDNS

	t := c.WebRTC.Timeouts
	if t.ICEDisconnectedTimeout != 0 || t.ICEFailedTimeout != 0 || t.ICEKeepaliveInterval != 0 {
		o.ICEDisconnectedTimeout = time.Duration(t.ICEDisconnectedTimeout) * time.Second
		o.ICEFailedTimeout = time.Duration(t.ICEFailedTimeout) * time.Second
		o.ICEKeepaliveInterval = time.Duration(t.ICEKeepaliveInterval) * time.Second
	}

	return o
}

func (c Config) RelayOptions() wsrelay.Options {
	o := wsrelay.DefaultOptions(c.Relay.URL)

	if c.Relay.HandshakeTimeout > 0 {
		o.HandshakeTimeout = time.Duration(c.Relay.HandshakeTimeout) * time.Second
	}
	if c.Relay.RequestTimeout > 0 {
		o.RequestTimeout = time.Duration(c.Relay.RequestTimeout) * time.Second
	}

	r := c.Relay.Retry
	if r.Attempts > 0 {
		o.Retry.Attempts = r.Attempts
	}
	if r.Interval > 0 {
		o.Retry.BaseInterval = time.Duration(r.Interval) * time.Millisecond
	}
	if r.MaxBackoff > 0 {
		o.Retry.MaxBackoff = time.Duration(r.MaxBackoff) * time.Millisecond
	}

	return o
}

func (c Config) NegotiationTimeout() time.Duration {
	return time.Duration(c.Session.NegotiationTimeout) * time.Second
}

// ServerConfig is the relay server configuration.
type ServerConfig struct {
	Addr string           `toml:"addr"`
	Turn relay.TurnConfig `toml:"turn"`
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr: ":8080",
		Turn: relay.TurnConfig{
			Realm:   "telecall",
			Address: "0.0.0.0:3478",
		},
	}
}

func LoadServer(path string) (ServerConfig, error) {
	c := DefaultServer()
	if err := decode(path, &c); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}
