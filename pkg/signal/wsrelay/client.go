// Package wsrelay connects to the signaling relay over JSON-RPC 2.0 on
// WebSocket and exposes it as a signal.Bus.
package wsrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	payload "github.com/HMasataka/telecall/payload/relay"
	"github.com/HMasataka/telecall/pkg/retry"
	"github.com/HMasataka/telecall/pkg/signal"
	ws "github.com/gorilla/websocket"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/sourcegraph/jsonrpc2/websocket"
)

var ErrRelayClosed = errors.New("relay connection closed")

type Options struct {
	URL              string
	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration
	Retry            retry.Config
}

func DefaultOptions(url string) Options {
	return Options{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		RequestTimeout:   10 * time.Second,
		Retry:            retry.DefaultConfig(),
	}
}

var _ signal.Bus = (*Client)(nil)

type Client struct {
	conn    *jsonrpc2.Conn
	options Options

	mu     sync.Mutex
	topics map[string]map[*signal.Mailbox]struct{}
	closed bool
}

// Dial connects to the relay, retrying transient failures with backoff.
func Dial(ctx context.Context, options Options) (*Client, error) {
	dialer := ws.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: options.HandshakeTimeout,
	}

	var c *ws.Conn
	err := retry.Do(ctx, options.Retry, func(attempt int) error {
		conn, resp, err := dialer.DialContext(ctx, options.URL, nil)
		if err != nil {
			slog.Debug("relay dial failed", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return fmt.Errorf("%w: %w", retry.ErrPermanent, err)
			}
			return err
		}
		c = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay %s: %w", options.URL, err)
	}

	client := &Client{
		options: options,
		topics:  make(map[string]map[*signal.Mailbox]struct{}),
	}
	client.conn = jsonrpc2.NewConn(context.Background(), websocket.NewObjectStream(c), client)

	go client.watch()

	slog.Info("relay connected", slog.String("url", options.URL))

	return client, nil
}

// Handle receives notifications from the relay. It runs on the connection's
// read goroutine, one message at a time, which keeps deliveries in order.
func (c *Client) Handle(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	if request.Method != payload.MethodMessage {
		if !request.Notif {
			err := &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + request.Method}
			if replyErr := conn.ReplyWithError(ctx, request.ID, err); replyErr != nil {
				slog.Error("failed to send error reply", slog.String("error", replyErr.Error()))
			}
		}
		return
	}

	if request.Params == nil {
		return
	}

	var notification payload.MessageNotification
	if err := json.Unmarshal(*request.Params, &notification); err != nil {
		slog.Warn("malformed relay notification", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for mailbox := range c.topics[notification.Topic] {
		mailbox.Deliver(notification.Data)
	}
}

func (c *Client) Subscribe(ctx context.Context, topic string) (signal.Subscription, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrRelayClosed
	}

	var mailbox *signal.Mailbox
	mailbox = signal.NewMailbox(func() error {
		return c.unsubscribe(topic, mailbox)
	})

	mailboxes, ok := c.topics[topic]
	first := !ok
	if first {
		mailboxes = make(map[*signal.Mailbox]struct{})
		c.topics[topic] = mailboxes
	}
	mailboxes[mailbox] = struct{}{}
	c.mu.Unlock()

	if !first {
		return mailbox, nil
	}

	var resp payload.SubscribeResponse
	if err := c.call(ctx, payload.MethodSubscribe, payload.SubscribeRequest{Topic: topic}, &resp); err != nil {
		c.remove(topic, mailbox)
		mailbox.Close(err)
		return nil, fmt.Errorf("failed to subscribe %s: %w", topic, err)
	}

	slog.Debug("relay subscribed", slog.String("topic", topic), slog.Int("subscribers", resp.Subscribers))

	return mailbox, nil
}

func (c *Client) Publish(ctx context.Context, topic string, data []byte) error {
	var resp payload.PublishResponse
	if err := c.call(ctx, payload.MethodPublish, payload.PublishRequest{Topic: topic, Data: data}, &resp); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the relay. Open subscriptions end with
// ErrRelayClosed.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Done is closed once the relay connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.conn.DisconnectNotify()
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	if c.options.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.RequestTimeout)
		defer cancel()
	}

	if err := c.conn.Call(ctx, method, params, result); err != nil {
		if errors.Is(err, jsonrpc2.ErrClosed) {
			return ErrRelayClosed
		}
		return err
	}
	return nil
}

func (c *Client) unsubscribe(topic string, mailbox *signal.Mailbox) error {
	if last := c.remove(topic, mailbox); !last {
		return nil
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil
	}

	return c.call(context.Background(), payload.MethodUnsubscribe, payload.UnsubscribeRequest{Topic: topic}, nil)
}

// remove reports whether mailbox was the topic's last local subscriber.
func (c *Client) remove(topic string, mailbox *signal.Mailbox) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	mailboxes, ok := c.topics[topic]
	if !ok {
		return false
	}
	delete(mailboxes, mailbox)
	if len(mailboxes) > 0 {
		return false
	}
	delete(c.topics, topic)
	return true
}

func (c *Client) watch() {
	<-c.conn.DisconnectNotify()

	c.mu.Lock()
	c.closed = true
	topics := c.topics
	c.topics = make(map[string]map[*signal.Mailbox]struct{})
	c.mu.Unlock()

	for _, mailboxes := range topics {
		for mailbox := range mailboxes {
			mailbox.Close(ErrRelayClosed)
		}
	}

	slog.Info("relay disconnected", slog.String("url", c.options.URL))
}
