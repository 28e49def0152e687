package wsrelay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HMasataka/telecall/internal/relay"
	"github.com/HMasataka/telecall/payload/signaling"
	"github.com/HMasataka/telecall/pkg/retry"
	"github.com/HMasataka/telecall/pkg/signal"
	"github.com/HMasataka/telecall/pkg/signal/wsrelay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) (string, *relay.Hub) {
	t.Helper()

	hub := relay.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(relay.NewServer(hub).HandleWebSocket))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, url string) *wsrelay.Client {
	t.Helper()

	client, err := wsrelay.Dial(context.Background(), wsrelay.DefaultOptions(url))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func receive(t *testing.T, sub signal.Subscription) []byte {
	t.Helper()

	select {
	case data, ok := <-sub.Messages():
		require.True(t, ok, "subscription closed: %v", sub.Err())
		return data
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("送信者を含む全購読者に届く", func(t *testing.T) {
		url, hub := startRelay(t)
		alice := dial(t, url)
		bob := dial(t, url)

		atAlice, err := alice.Subscribe(ctx, "session/1")
		require.NoError(t, err)
		atBob, err := bob.Subscribe(ctx, "session/1")
		require.NoError(t, err)
		assert.Equal(t, 2, hub.Subscribers("session/1"))

		require.NoError(t, alice.Publish(ctx, "session/1", []byte(`{"hello":"world"}`)))

		assert.JSONEq(t, `{"hello":"world"}`, string(receive(t, atAlice)))
		assert.JSONEq(t, `{"hello":"world"}`, string(receive(t, atBob)))
	})

	t.Run("順序が保たれる", func(t *testing.T) {
		url, _ := startRelay(t)
		alice := dial(t, url)
		bob := dial(t, url)

		sub, err := bob.Subscribe(ctx, "session/1")
		require.NoError(t, err)

		for _, v := range []string{"1", "2", "3", "4"} {
			require.NoError(t, alice.Publish(ctx, "session/1", []byte(v)))
		}
		for _, v := range []string{"1", "2", "3", "4"} {
			assert.Equal(t, v, string(receive(t, sub)))
		}
	})

	t.Run("最後の購読解除でリレーからも外れる", func(t *testing.T) {
		url, hub := startRelay(t)
		alice := dial(t, url)

		first, err := alice.Subscribe(ctx, "session/1")
		require.NoError(t, err)
		second, err := alice.Subscribe(ctx, "session/1")
		require.NoError(t, err)

		require.NoError(t, first.Unsubscribe())
		assert.Equal(t, 1, hub.Subscribers("session/1"))

		require.NoError(t, second.Unsubscribe())
		assert.Equal(t, 0, hub.Subscribers("session/1"))
	})

	t.Run("切断で購読が終わる", func(t *testing.T) {
		url, _ := startRelay(t)
		alice := dial(t, url)

		sub, err := alice.Subscribe(ctx, "session/1")
		require.NoError(t, err)

		require.NoError(t, alice.Close())

		select {
		case _, ok := <-sub.Messages():
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("subscription did not end")
		}
		assert.ErrorIs(t, sub.Err(), wsrelay.ErrRelayClosed)

		_, err = alice.Subscribe(ctx, "session/1")
		assert.ErrorIs(t, err, wsrelay.ErrRelayClosed)
	})

	t.Run("チャネル越しのシグナリング", func(t *testing.T) {
		url, _ := startRelay(t)
		connector := signal.NewConnector(dial(t, url), signal.DefaultSenderOptions())

		ch, err := connector.Connect(ctx, "s1")
		require.NoError(t, err)
		defer ch.Disconnect()

		got := make(chan string, 1)
		ch.OnMessage(func(m *signaling.Message) { got <- m.SenderID })

		msg, err := signaling.NewHangupMessage("alice", "done")
		require.NoError(t, err)
		require.NoError(t, ch.Send(ctx, msg))

		select {
		case sender := <-got:
			assert.Equal(t, "alice", sender)
		case <-time.After(5 * time.Second):
			t.Fatal("message not echoed")
		}
	})
}

func TestDial(t *testing.T) {
	options := wsrelay.DefaultOptions("ws://127.0.0.1:1/ws")
	options.Retry = retry.Config{Attempts: 2, BaseInterval: time.Millisecond, MaxBackoff: time.Millisecond}

	_, err := wsrelay.Dial(context.Background(), options)
	assert.Error(t, err)
}
