package relay

import (
	"context"
	"log/slog"
	"sync"

	payload "github.com/HMasataka/telecall/payload/relay"
	"github.com/gammazero/workerpool"
	"github.com/sourcegraph/jsonrpc2"
)

// Notifier is the part of a JSON-RPC connection the hub writes to.
type Notifier interface {
	Notify(ctx context.Context, method string, params any, opts ...jsonrpc2.CallOption) error
}

// Peer is one connected relay client. Deliveries to a peer run on its own
// single worker so a slow client never stalls publishers and payloads stay
// in publish order.
type Peer struct {
	id       string
	notifier Notifier
	pool     *workerpool.WorkerPool
}

func NewPeer(id string, notifier Notifier) *Peer {
	return &Peer{
		id:       id,
		notifier: notifier,
		pool:     workerpool.New(1),
	}
}

func (p *Peer) ID() string {
	return p.id
}

func (p *Peer) deliver(topic string, data []byte) {
	p.pool.Submit(func() {
		notification := payload.MessageNotification{Topic: topic, Data: data}
		if err := p.notifier.Notify(context.Background(), payload.MethodMessage, notification); err != nil {
			slog.Warn("failed to deliver relay message",
				slog.String("peer_id", p.id),
				slog.String("topic", topic),
				slog.String("error", err.Error()),
			)
		}
	})
}

func (p *Peer) close() {
	p.pool.StopWait()
}

// Hub routes published payloads to every peer subscribed to the topic,
// the publisher included.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Peer]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Peer]struct{}),
	}
}

// Subscribe returns the number of subscribers after adding peer.
func (h *Hub) Subscribe(topic string, peer *Peer) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.topics[topic]
	if !ok {
		peers = make(map[*Peer]struct{})
		h.topics[topic] = peers
	}
	peers[peer] = struct{}{}

	return len(peers)
}

func (h *Hub) Unsubscribe(topic string, peer *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.unsubscribe(topic, peer)
}

func (h *Hub) unsubscribe(topic string, peer *Peer) {
	peers, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(peers, peer)
	if len(peers) == 0 {
		delete(h.topics, topic)
	}
}

// Publish queues data for every subscriber of topic and returns how many
// peers it was queued for.
func (h *Hub) Publish(topic string, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	peers := h.topics[topic]
	for peer := range peers {
		peer.deliver(topic, data)
	}

	return len(peers)
}

// Remove detaches peer from every topic and waits for its pending
// deliveries.
func (h *Hub) Remove(peer *Peer) {
	h.mu.Lock()
	for topic := range h.topics {
		h.unsubscribe(topic, peer)
	}
	h.mu.Unlock()

	peer.close()
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
