// Package signal adapts a generic publish/subscribe relay into per-session
// signaling channels.
package signal

import (
	"context"
	"errors"
)

//go:generate mockgen -source bus.go -destination mock/bus.go

var (
	ErrClosed         = errors.New("signaling channel closed")
	ErrSendBufferFull = errors.New("signaling send buffer full")
	ErrBusClosed      = errors.New("signaling bus closed")
)

// Bus はトピック単位の pub/sub リレー。
// 配信は送信者自身を含む全購読者に届く。同一送信者からの順序は保たれる。
// 受信側は sender_id で自分のメッセージを除外する必要がある。
type Bus interface {
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(ctx context.Context, topic string, data []byte) error
}

// Subscription delivers payloads published on one topic. Messages is closed
// when the subscription ends; Err then reports why (nil after Unsubscribe).
type Subscription interface {
	Messages() <-chan []byte
	Err() error
	Unsubscribe() error
}
