// Package memory is an in-process signaling bus.
package memory

import (
	"context"
	"sync"

	"github.com/HMasataka/telecall/pkg/signal"
)

var _ signal.Bus = (*Bus)(nil)

type Bus struct {
	mu     sync.Mutex
	topics map[string]map[*signal.Mailbox]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[*signal.Mailbox]struct{}),
	}
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (signal.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, signal.ErrBusClosed
	}

	var mailbox *signal.Mailbox
	mailbox = signal.NewMailbox(func() error {
		b.remove(topic, mailbox)
		return nil
	})

	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*signal.Mailbox]struct{})
		b.topics[topic] = subs
	}
	subs[mailbox] = struct{}{}

	return mailbox, nil
}

// Publish copies data into every mailbox subscribed to topic, the
// publisher's own included.
func (b *Bus) Publish(ctx context.Context, topic string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return signal.ErrBusClosed
	}

	for mailbox := range b.topics[topic] {
		payload := make([]byte, len(data))
		copy(payload, data)
		mailbox.Deliver(payload)
	}

	return nil
}

// Subscribers returns the number of live subscriptions on topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

// Close ends every subscription with signal.ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	topics := b.topics
	b.topics = nil
	b.mu.Unlock()

	for _, subs := range topics {
		for mailbox := range subs {
			mailbox.Close(signal.ErrBusClosed)
		}
	}
}

func (b *Bus) remove(topic string, mailbox *signal.Mailbox) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	delete(subs, mailbox)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
}
