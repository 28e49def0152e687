package call_test

import (
	"context"
	"testing"
	"time"

	"github.com/HMasataka/telecall/pkg/call"
	"github.com/HMasataka/telecall/pkg/media"
	"github.com/HMasataka/telecall/pkg/media/mediatest"
	"github.com/HMasataka/telecall/pkg/signal"
	"github.com/HMasataka/telecall/pkg/signal/memory"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/HMasataka/telecall/pkg/webrtc/webrtctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type peer struct {
	session   *call.Session
	source    *mediatest.Source
	presenter *presenter
}

func newPeer(t *testing.T, bus signal.Bus, options pkgwebrtc.PeerConnectionOptions, id string, role call.Role) *peer {
	t.Helper()

	p := &peer{source: &mediatest.Source{}, presenter: &presenter{}}

	s, err := call.NewSession(call.Config{
		SessionID:          "visit-e2e",
		Participant:        call.Participant{ID: id},
		Role:               role,
		Constraints:        media.DefaultConstraints(),
		NegotiationTimeout: 20 * time.Second,
	}, call.Components{
		Capturer:  media.NewManager(p.source),
		Connector: signal.NewConnector(bus, signal.DefaultSenderOptions()),
		PeerConnections: call.PeerConnectionFactoryFunc(func() (call.PeerConnection, error) {
			pc, err := pkgwebrtc.NewPeerConnection(options)
			if err != nil {
				return nil, err
			}
			return pc, nil
		}),
		Presenter: p.presenter,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	p.session = s
	return p
}

func (p *peer) pump(ctx context.Context) {
	for _, tr := range p.source.Tracks() {
		go tr.Pump(ctx)
	}
}

func TestSession_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("peer connection test")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := memory.NewBus()
	defer bus.Close()

	options := webrtctest.Options(t, 2)

	bob := newPeer(t, bus, options[1], "bob", call.RoleResponder)
	alice := newPeer(t, bus, options[0], "alice", call.RoleInitiator)

	require.NoError(t, bob.session.Start(ctx))
	require.NoError(t, alice.session.Start(ctx))
	bob.pump(ctx)
	alice.pump(ctx)

	for _, p := range []*peer{alice, bob} {
		require.Eventually(t, func() bool {
			return p.session.State() == call.StateActive
		}, 15*time.Second, 50*time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(alice.presenter.remotes()) == 2 && len(bob.presenter.remotes()) == 2
	}, 10*time.Second, 50*time.Millisecond)

	stats := bob.session.Negotiation()
	assert.Equal(t, 1, stats.OffersApplied)
	assert.Equal(t, 1, stats.AnswersSent)

	alice.session.End()
	assert.Equal(t, call.StateEnded, alice.session.State())

	require.Eventually(t, func() bool {
		return bob.session.State() == call.StateEnded
	}, 5*time.Second, 20*time.Millisecond)
	assert.NoError(t, bob.session.Err())

	for _, p := range []*peer{alice, bob} {
		for _, tr := range p.source.Tracks() {
			assert.Equal(t, 1, tr.Stops())
		}
	}
}

func TestSession_EndToEndInitiatorFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("peer connection test")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := memory.NewBus()
	defer bus.Close()

	options := webrtctest.Options(t, 2)

	alice := newPeer(t, bus, options[0], "alice", call.RoleInitiator)
	require.NoError(t, alice.session.Start(ctx))
	alice.pump(ctx)

	// 相手がいない間にオファーと候補を送り終える
	require.Eventually(t, func() bool {
		return alice.session.Negotiation().CandidatesSent > 0
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, call.StateSignaling, alice.session.State())

	bob := newPeer(t, bus, options[1], "bob", call.RoleResponder)
	require.NoError(t, bob.session.Start(ctx))
	bob.pump(ctx)

	for _, p := range []*peer{alice, bob} {
		require.Eventually(t, func() bool {
			return p.session.State() == call.StateActive
		}, 15*time.Second, 50*time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return len(alice.presenter.remotes()) == 2 && len(bob.presenter.remotes()) == 2
	}, 10*time.Second, 50*time.Millisecond)

	bobStats := bob.session.Negotiation()
	assert.Equal(t, 1, bobStats.JoinsSent)
	assert.Equal(t, 1, bobStats.OffersApplied)
	assert.Positive(t, bobStats.CandidatesApplied)
	assert.Equal(t, 2, alice.session.Negotiation().OffersSent)

	bob.session.End()
	require.Eventually(t, func() bool {
		return alice.session.State() == call.StateEnded
	}, 5*time.Second, 20*time.Millisecond)
	assert.NoError(t, alice.session.Err())
}
