package signal

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SenderOptions configures the behavior of a Sender
type SenderOptions struct {
	WriteTimeout time.Duration
	BufferSize   int
}

// DefaultSenderOptions returns sensible default options for a Sender
func DefaultSenderOptions() SenderOptions {
	return SenderOptions{
		WriteTimeout: 10 * time.Second,
		BufferSize:   256,
	}
}

// Sender publishes queued payloads to one topic from a single goroutine so
// the relay sees them in send order.
type Sender struct {
	bus     Bus
	topic   string
	options SenderOptions

	sendChan chan []byte
	mutex    sync.RWMutex
	closed   bool
	done     chan struct{}

	onError func(error)
}

// NewSender creates a Sender and starts its write pump. onError receives
// publish failures.
func NewSender(bus Bus, topic string, options SenderOptions, onError func(error)) *Sender {
	s := &Sender{
		bus:      bus,
		topic:    topic,
		options:  options,
		sendChan: make(chan []byte, options.BufferSize),
		done:     make(chan struct{}),
		onError:  onError,
	}
	go s.writePump()
	return s
}

// Send queues a message for publishing
func (s *Sender) Send(ctx context.Context, message []byte) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.closed {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.sendChan <- message:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops accepting messages and waits until the queued ones have been
// published.
func (s *Sender) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.sendChan)
	s.mutex.Unlock()

	<-s.done
	return nil
}

func (s *Sender) writePump() {
	defer close(s.done)

	for message := range s.sendChan {
		if err := s.publish(message); err != nil {
			slog.Warn("failed to publish signaling message",
				slog.String("topic", s.topic),
				slog.String("error", err.Error()),
			)
			if s.onError != nil {
				s.onError(err)
			}
		}
	}
}

func (s *Sender) publish(message []byte) error {
	ctx := context.Background()
	if s.options.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.WriteTimeout)
		defer cancel()
	}
	return s.bus.Publish(ctx, s.topic, message)
}
