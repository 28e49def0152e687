package signal

import (
	"sync"

	"github.com/gammazero/deque"
)

var _ Subscription = (*Mailbox)(nil)

// Mailbox is an unbounded Subscription. Publishers never block on a slow
// reader; payloads are queued and handed out in arrival order.
type Mailbox struct {
	mu     sync.Mutex
	queue  deque.Deque[[]byte]
	notify chan struct{}
	done   chan struct{}
	out    chan []byte
	closed bool
	err    error

	unsubscribe func() error
}

// NewMailbox starts a mailbox. unsubscribe is called once by Unsubscribe
// to detach it from its bus.
func NewMailbox(unsubscribe func() error) *Mailbox {
	m := &Mailbox{
		notify:      make(chan struct{}, 1),
		done:        make(chan struct{}),
		out:         make(chan []byte),
		unsubscribe: unsubscribe,
	}
	go m.pump()
	return m
}

// Deliver queues data. Deliveries after Close are dropped.
func (m *Mailbox) Deliver(data []byte) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue.PushBack(data)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Mailbox) Messages() <-chan []byte {
	return m.out
}

func (m *Mailbox) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Close ends the subscription with err. Queued payloads are discarded.
func (m *Mailbox) Close(err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.err = err
	m.queue.Clear()
	m.mu.Unlock()

	close(m.done)
}

func (m *Mailbox) Unsubscribe() error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil
	}

	var err error
	if m.unsubscribe != nil {
		err = m.unsubscribe()
	}
	m.Close(nil)

	return err
}

func (m *Mailbox) pump() {
	defer close(m.out)

	for {
		m.mu.Lock()
		if m.queue.Len() == 0 {
			m.mu.Unlock()
			select {
			case <-m.notify:
				continue
			case <-m.done:
				return
			}
		}
		data := m.queue.PopFront()
		m.mu.Unlock()

		select {
		case m.out <- data:
		case <-m.done:
			return
		}
	}
}
