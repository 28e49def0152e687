// Package webrtctest wires peer connections onto an in-process virtual
// network so tests can connect two peers without touching the host network.
package webrtctest

import (
	"fmt"
	"testing"
	"time"

	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/pion/logging"
	"github.com/pion/transport/v3/vnet"
	"github.com/stretchr/testify/require"
)

// Options returns one set of peer connection options per peer, each bound
// to its own address on a shared virtual LAN. The network is torn down when
// the test ends.
func Options(tb testing.TB, peers int) []pkgwebrtc.PeerConnectionOptions {
	tb.Helper()

	router, err := vnet.NewRouter(&vnet.RouterConfig{
		CIDR:          "10.0.0.0/24",
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	})
	require.NoError(tb, err)

	options := make([]pkgwebrtc.PeerConnectionOptions, 0, peers)
	for i := range peers {
		n, err := vnet.NewNet(&vnet.NetConfig{
			StaticIPs: []string{fmt.Sprintf("10.0.0.%d", i+2)},
		})
		require.NoError(tb, err)
		require.NoError(tb, router.AddNet(n))

		options = append(options, pkgwebrtc.PeerConnectionOptions{
			ICEDisconnectedTimeout: 5 * time.Second,
			ICEFailedTimeout:       10 * time.Second,
			ICEKeepaliveInterval:   500 * time.Millisecond,
			DisableMDNS:            true,
			Net:                    n,
		})
	}

	require.NoError(tb, router.Start())
	tb.Cleanup(func() {
		_ = router.Stop()
	})

	return options
}
