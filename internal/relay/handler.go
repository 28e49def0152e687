package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	payload "github.com/HMasataka/telecall/payload/relay"
	"github.com/HMasataka/logging"
	"github.com/sourcegraph/jsonrpc2"
)

func NewHandler(hub *Hub, peer *Peer) *Handler {
	return &Handler{
		hub:  hub,
		peer: peer,
	}
}

// Handler serves one peer's JSON-RPC requests.
type Handler struct {
	hub  *Hub
	peer *Peer
}

func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	switch request.Method {
	case payload.MethodSubscribe:
		h.Subscribe(ctx, conn, request)
	case payload.MethodUnsubscribe:
		h.Unsubscribe(ctx, conn, request)
	case payload.MethodPublish:
		h.Publish(ctx, conn, request)
	default:
		slog.Warn("unknown method", slog.String("method", request.Method), slog.String("peer_id", h.peer.ID()))
		replyError(ctx, conn, request, jsonrpc2.CodeMethodNotFound, "method not found: "+request.Method)
	}
}

func (h *Handler) Subscribe(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args payload.SubscribeRequest
	if !decodeParams(ctx, conn, request, &args) {
		return
	}

	subscribers := h.hub.Subscribe(args.Topic, h.peer)

	if err := conn.Reply(ctx, request.ID, payload.SubscribeResponse{Subscribers: subscribers}); err != nil {
		slog.Error("failed to send subscribe response", slog.String("error", err.Error()))
		return
	}

	if logging.HasLoggingContext(ctx) {
		slog.InfoContext(ctx, "peer subscribed", slog.String("topic", args.Topic), slog.String("peer_id", h.peer.ID()))
	}
}

func (h *Handler) Unsubscribe(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args payload.UnsubscribeRequest
	if !decodeParams(ctx, conn, request, &args) {
		return
	}

	h.hub.Unsubscribe(args.Topic, h.peer)

	if err := conn.Reply(ctx, request.ID, struct{}{}); err != nil {
		slog.Error("failed to send unsubscribe response", slog.String("error", err.Error()))
	}
}

func (h *Handler) Publish(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request) {
	var args payload.PublishRequest
	if !decodeParams(ctx, conn, request, &args) {
		return
	}

	delivered := h.hub.Publish(args.Topic, args.Data)

	if request.Notif {
		return
	}
	if err := conn.Reply(ctx, request.ID, payload.PublishResponse{Delivered: delivered}); err != nil {
		slog.Error("failed to send publish response", slog.String("error", err.Error()))
	}
}

type validator interface {
	Validate() error
}

func decodeParams(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request, args validator) bool {
	if request.Params == nil {
		replyError(ctx, conn, request, jsonrpc2.CodeInvalidParams, "Invalid params")
		return false
	}
	if err := json.Unmarshal(*request.Params, args); err != nil {
		replyError(ctx, conn, request, jsonrpc2.CodeInvalidParams, "Invalid params")
		return false
	}
	if err := args.Validate(); err != nil {
		replyError(ctx, conn, request, jsonrpc2.CodeInvalidParams, err.Error())
		return false
	}
	return true
}

func replyError(ctx context.Context, conn *jsonrpc2.Conn, request *jsonrpc2.Request, code int64, message string) {
	if request.Notif {
		return
	}
	err := &jsonrpc2.Error{Code: code, Message: message}
	if replyErr := conn.ReplyWithError(ctx, request.ID, err); replyErr != nil {
		slog.Error("failed to send error reply", slog.String("error", replyErr.Error()))
	}
}
