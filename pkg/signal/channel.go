package signal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/HMasataka/telecall/payload/signaling"
)

//go:generate mockgen -source channel.go -destination mock/channel.go

// Channel is one session's signaling link.
type Channel interface {
	// Send queues msg. Delivery is best effort; publish failures reach the
	// OnError handlers.
	Send(ctx context.Context, msg *signaling.Message) error
	// OnMessage receives every message on the session topic, including the
	// caller's own. Handlers run on the channel's read goroutine.
	OnMessage(fn func(*signaling.Message))
	// OnError receives transport failures.
	OnError(fn func(error))
	// Disconnect unsubscribes. Only the first call has an effect.
	Disconnect() error
}

type Connector interface {
	Connect(ctx context.Context, sessionID string) (Channel, error)
}

// Topic returns the relay topic carrying sessionID's messages.
func Topic(sessionID string) string {
	return "session/" + sessionID
}

var _ Connector = (*BusConnector)(nil)

// BusConnector opens channels on a Bus.
type BusConnector struct {
	bus     Bus
	options SenderOptions
}

func NewConnector(bus Bus, options SenderOptions) *BusConnector {
	return &BusConnector{bus: bus, options: options}
}

func (c *BusConnector) Connect(ctx context.Context, sessionID string) (Channel, error) {
	topic := Topic(sessionID)

	sub, err := c.bus.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", topic, err)
	}

	ch := &channel{
		topic: topic,
		sub:   sub,
		done:  make(chan struct{}),
	}
	ch.sender = NewSender(c.bus, topic, c.options, ch.reportError)

	slog.Debug("signaling channel connected", slog.String("topic", topic))

	return ch, nil
}

var _ Channel = (*channel)(nil)

type channel struct {
	topic  string
	sub    Subscription
	sender *Sender

	mu         sync.RWMutex
	onMessage  []func(*signaling.Message)
	onError    []func(error)
	readOnce   sync.Once
	disconnect sync.Once
	disconnErr error
	done       chan struct{}
}

func (c *channel) Send(ctx context.Context, msg *signaling.Message) error {
	data, err := signaling.Encode(msg)
	if err != nil {
		return err
	}
	return c.sender.Send(ctx, data)
}

// OnMessage registers fn and starts reading. Payloads that arrived before
// the first handler stay queued in the subscription.
func (c *channel) OnMessage(fn func(*signaling.Message)) {
	c.mu.Lock()
	c.onMessage = append(c.onMessage, fn)
	c.mu.Unlock()

	c.readOnce.Do(func() {
		go c.readPump()
	})
}

func (c *channel) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = append(c.onError, fn)
	c.mu.Unlock()
}

func (c *channel) Disconnect() error {
	c.disconnect.Do(func() {
		close(c.done)
		if err := c.sender.Close(); err != nil {
			c.disconnErr = err
		}
		if err := c.sub.Unsubscribe(); err != nil && c.disconnErr == nil {
			c.disconnErr = err
		}
		slog.Debug("signaling channel disconnected", slog.String("topic", c.topic))
	})
	return c.disconnErr
}

func (c *channel) readPump() {
	for data := range c.sub.Messages() {
		msg, err := signaling.Decode(data)
		if err != nil {
			slog.Warn("dropping malformed signaling message",
				slog.String("topic", c.topic),
				slog.String("error", err.Error()),
			)
			continue
		}

		c.mu.RLock()
		handlers := c.onMessage
		c.mu.RUnlock()

		for _, fn := range handlers {
			fn(msg)
		}
	}

	select {
	case <-c.done:
		return
	default:
	}

	if err := c.sub.Err(); err != nil {
		c.reportError(fmt.Errorf("subscription to %s lost: %w", c.topic, err))
	}
}

func (c *channel) reportError(err error) {
	c.mu.RLock()
	handlers := c.onError
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(err)
	}
}
