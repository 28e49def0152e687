package relay

import (
	"testing"

	"github.com/pion/turn/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	t.Run("正常に解析される", func(t *testing.T) {
		keys, err := parseCredentials("telecall", "alice=secret, bob=hunter2")
		require.NoError(t, err)

		assert.Len(t, keys, 2)
		assert.Equal(t, turn.GenerateAuthKey("alice", "telecall", "secret"), keys["alice"])
	})

	t.Run("不正なエントリ", func(t *testing.T) {
		_, err := parseCredentials("telecall", "alice")
		assert.ErrorIs(t, err, ErrInvalidTurnCredentials)
	})

	t.Run("空", func(t *testing.T) {
		_, err := parseCredentials("telecall", "")
		assert.ErrorIs(t, err, ErrInvalidTurnCredentials)
	})
}

func TestInitTurnServer(t *testing.T) {
	server, err := InitTurnServer(TurnConfig{
		Enabled:  true,
		Realm:    "telecall",
		Address:  "127.0.0.1:0",
		Auth:     TurnAuth{Credentials: "alice=secret"},
		PublicIP: "127.0.0.1",
	})
	require.NoError(t, err)
	assert.NoError(t, server.Close())
}
