package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/HMasataka/telecall/payload/signaling"
)

var ErrNoHandler = errors.New("no handler for message type")

type Handler interface {
	Handle(ctx context.Context, msg *signaling.Message) error
}

type HandlerFunc func(ctx context.Context, msg *signaling.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *signaling.Message) error {
	return f(ctx, msg)
}

// Router dispatches signaling messages by type.
type Router struct {
	handlers map[signaling.MessageType]Handler
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[signaling.MessageType]Handler),
	}
}

func (r *Router) Register(messageType signaling.MessageType, handler Handler) {
	r.handlers[messageType] = handler
}

func (r *Router) Get(messageType signaling.MessageType) (Handler, bool) {
	handler, ok := r.handlers[messageType]
	return handler, ok
}

func (r *Router) Handle(ctx context.Context, msg *signaling.Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}

	handler, ok := r.Get(msg.Type)
	if !ok || handler == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, msg.Type)
	}

	return handler.Handle(ctx, msg)
}
