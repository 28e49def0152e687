// Package relay is the signaling relay server: a topic-keyed publish and
// subscribe service spoken over JSON-RPC 2.0 on WebSocket.
package relay

import (
	"context"
	"log/slog"
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/rs/xid"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/sourcegraph/jsonrpc2/websocket"
)

type Server struct {
	hub      *Hub
	upgrader ws.Upgrader
}

func NewServer(hub *Hub) *Server {
	return &Server{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and serves the peer until it
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	peerID := xid.New().String()
	notifier := &lazyNotifier{ready: make(chan struct{})}
	peer := NewPeer(peerID, notifier)

	conn := jsonrpc2.NewConn(ctx, websocket.NewObjectStream(c), NewHandler(s.hub, peer))
	notifier.set(conn)

	slog.Info("relay peer connected", slog.String("peer_id", peerID), slog.String("remote", r.RemoteAddr))

	<-conn.DisconnectNotify()

	s.hub.Remove(peer)

	slog.Info("relay peer disconnected", slog.String("peer_id", peerID))
}

// lazyNotifier lets the peer exist before its connection does. Deliveries
// wait until the connection is set.
type lazyNotifier struct {
	conn  *jsonrpc2.Conn
	ready chan struct{}
}

func (n *lazyNotifier) set(conn *jsonrpc2.Conn) {
	n.conn = conn
	close(n.ready)
}

func (n *lazyNotifier) Notify(ctx context.Context, method string, params any, opts ...jsonrpc2.CallOption) error {
	select {
	case <-n.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	return n.conn.Notify(ctx, method, params, opts...)
}
