package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HMasataka/telecall/internal/config"
	"github.com/HMasataka/telecall/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("ファイルの値で上書きする", func(t *testing.T) {
		c, err := config.Load(filepath.Join("testdata", "client.toml"))
		require.NoError(t, err)

		assert.Equal(t, "dr-tanaka", c.Participant.ID)
		assert.Equal(t, "wss://relay.example.com/ws", c.Relay.URL)
		assert.Equal(t, media.Constraints{
			Video:       true,
			Audio:       true,
			Width:       640,
			Height:      480,
			FrameRate:   15,
			Orientation: media.OrientationPortrait,
		}, c.Media)
		assert.Equal(t, 45*time.Second, c.NegotiationTimeout())
		assert.Equal(t, "/tmp/sdp", c.Session.SDPDumpDir)
	})

	t.Run("パスが空ならデフォルト", func(t *testing.T) {
		c, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), c)
	})

	t.Run("存在しないファイル", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("不正な向き", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[media]\norientation = \"diagonal\"\n"), 0o644))

		_, err := config.Load(path)
		assert.Error(t, err)
	})

	t.Run("リレーURLが空", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.toml")
		require.NoError(t, os.WriteFile(path, []byte("[relay]\nurl = \"\"\n"), 0o644))

		_, err := config.Load(path)
		assert.ErrorIs(t, err, config.ErrMissingRelayURL)
	})
}

func TestConfig_PeerConnectionOptions(t *testing.T) {
	c, err := config.Load(filepath.Join("testdata", "client.toml"))
	require.NoError(t, err)

	o := c.PeerConnectionOptions()

	require.Len(t, o.ICEServers, 1)
	assert.Equal(t, []string{"turn:turn.example.com:3478"}, o.ICEServers[0].URLs)
	assert.Equal(t, "user", o.ICEServers[0].Username)
	assert.True(t, o.DisableMDNS)
	assert.Equal(t, 3*time.Second, o.ICEDisconnectedTimeout)
	assert.Equal(t, 10*time.Second, o.ICEFailedTimeout)
	assert.Equal(t, time.Second, o.ICEKeepaliveInterval)
}

func TestConfig_RelayOptions(t *testing.T) {
	c, err := config.Load(filepath.Join("testdata", "client.toml"))
	require.NoError(t, err)

	o := c.RelayOptions()

	assert.Equal(t, "wss://relay.example.com/ws", o.URL)
	assert.Equal(t, 10*time.Second, o.HandshakeTimeout)
	assert.Equal(t, 3*time.Second, o.RequestTimeout)
	assert.Equal(t, 2, o.Retry.Attempts)
	assert.Equal(t, 100*time.Millisecond, o.Retry.BaseInterval)
	assert.Equal(t, 5*time.Second, o.Retry.MaxBackoff)
}

func TestLoadServer(t *testing.T) {
	c, err := config.LoadServer(filepath.Join("testdata", "server.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Addr)
	assert.True(t, c.Turn.Enabled)
	assert.Equal(t, "clinic", c.Turn.Realm)
	assert.Equal(t, "alice=secret,bob=secret", c.Turn.Auth.Credentials)

	d, err := config.LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServer(), d)
}
