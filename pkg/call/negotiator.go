package call

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HMasataka/telecall/payload/signaling"
	"github.com/HMasataka/telecall/pkg/sdpdebug"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/gammazero/deque"
	"github.com/pion/webrtc/v4"
)

// NegotiationStats counts what the Negotiator has applied so far.
type NegotiationStats struct {
	LocalDescriptionSet  bool
	RemoteDescriptionSet bool
	JoinsSent            int
	OffersSent           int
	AnswersSent          int
	OffersApplied        int
	AnswersApplied       int
	CandidatesSent       int
	CandidatesApplied    int
	CandidatesPending    int
	RemoteTracks         int
}

// SendFunc delivers a message to the counterpart.
type SendFunc func(ctx context.Context, msg *signaling.Message) error

// Negotiator drives the offer/answer and candidate exchange for one role.
// It is not safe for concurrent use; the owning Session calls it from its
// event worker only.
type Negotiator struct {
	role   Role
	self   string
	pc     PeerConnection
	send   SendFunc
	router *Router
	logger *slog.Logger

	sdpDumpDir string

	pending deque.Deque[webrtc.ICECandidateInit]
	sealed  bool
	stats   NegotiationStats

	// 後から参加した相手に再送するため保持する
	offer       *signaling.Message
	answer      *signaling.Message
	remoteOffer string
	candidates  []*signaling.Message

	onHangup func(reason string)
}

func NewNegotiator(role Role, self string, pc PeerConnection, send SendFunc, logger *slog.Logger) *Negotiator {
	n := &Negotiator{
		role:   role,
		self:   self,
		pc:     pc,
		send:   send,
		logger: logger,
		router: NewRouter(),
	}

	n.router.Register(signaling.MessageTypeOffer, HandlerFunc(n.handleOffer))
	n.router.Register(signaling.MessageTypeAnswer, HandlerFunc(n.handleAnswer))
	n.router.Register(signaling.MessageTypeICECandidate, HandlerFunc(n.handleCandidate))
	n.router.Register(signaling.MessageTypeHangup, HandlerFunc(n.handleHangup))
	n.router.Register(signaling.MessageTypeJoin, HandlerFunc(n.handleJoin))

	return n
}

// Start sends the initial offer when acting as Initiator. A Responder
// announces itself with a join so an Initiator that subscribed first
// resends its offer.
func (n *Negotiator) Start(ctx context.Context) error {
	if n.role != RoleInitiator {
		msg, err := signaling.NewJoinMessage(n.self)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNegotiation, err)
		}
		if err := n.send(ctx, msg); err != nil {
			return fmt.Errorf("%w: %w", ErrSignaling, err)
		}
		n.stats.JoinsSent++
		return nil
	}

	offer, err := n.pc.CreateOffer()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.stats.LocalDescriptionSet = true
	n.trace("local offer", offer)

	msg, err := signaling.NewOfferMessage(n.self, offer)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.offer = msg
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSignaling, err)
	}
	n.stats.OffersSent++

	return nil
}

// handleJoin resends the current offer and every candidate trickled so far.
// The bus keeps no history, so a Responder that subscribed after Start has
// seen none of them.
func (n *Negotiator) handleJoin(ctx context.Context, msg *signaling.Message) error {
	if n.role != RoleInitiator {
		return nil
	}
	if n.sealed || n.offer == nil {
		n.logger.Info("ignoring join", slog.String("sender_id", msg.SenderID), slog.Bool("sealed", n.sealed))
		return nil
	}

	n.logger.Info("resending offer to joined participant", slog.String("sender_id", msg.SenderID), slog.Int("candidates", len(n.candidates)))

	if err := n.send(ctx, n.offer); err != nil {
		return fmt.Errorf("%w: %w", ErrSignaling, err)
	}
	n.stats.OffersSent++

	for _, candidate := range n.candidates {
		if err := n.send(ctx, candidate); err != nil {
			return fmt.Errorf("%w: %w", ErrSignaling, err)
		}
	}

	return nil
}

// HandleMessage applies a remote message. Messages sent by this participant
// are dropped before dispatch.
func (n *Negotiator) HandleMessage(ctx context.Context, msg *signaling.Message) error {
	if msg.IsFrom(n.self) {
		return nil
	}
	return n.router.Handle(ctx, msg)
}

func (n *Negotiator) handleOffer(ctx context.Context, msg *signaling.Message) error {
	if n.role == RoleInitiator {
		n.logger.Warn("ignoring offer received as initiator", slog.String("sender_id", msg.SenderID))
		return nil
	}
	if n.sealed {
		n.logger.Info("ignoring renegotiation offer after connect", slog.String("sender_id", msg.SenderID))
		return nil
	}

	offer, err := msg.SessionDescription()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}

	// join への再送で同じオファーが二度届くことがある
	if n.answer != nil && offer.SDP == n.remoteOffer {
		n.logger.Info("resending answer to duplicate offer", slog.String("sender_id", msg.SenderID))
		if err := n.send(ctx, n.answer); err != nil {
			return fmt.Errorf("%w: %w", ErrSignaling, err)
		}
		n.stats.AnswersSent++
		return nil
	}
	n.trace("remote offer", offer)

	if err := n.pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.stats.RemoteDescriptionSet = true
	n.stats.OffersApplied++
	n.remoteOffer = offer.SDP
	n.answer = nil

	if err := n.flushCandidates(); err != nil {
		return err
	}

	answer, err := n.pc.CreateAnswer()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.stats.LocalDescriptionSet = true
	n.trace("local answer", answer)

	reply, err := signaling.NewAnswerMessage(n.self, answer)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.answer = reply
	if err := n.send(ctx, reply); err != nil {
		return fmt.Errorf("%w: %w", ErrSignaling, err)
	}
	n.stats.AnswersSent++

	return nil
}

func (n *Negotiator) handleAnswer(_ context.Context, msg *signaling.Message) error {
	if n.role == RoleResponder {
		n.logger.Warn("ignoring answer received as responder", slog.String("sender_id", msg.SenderID))
		return nil
	}
	if !n.stats.LocalDescriptionSet {
		return ErrAnswerBeforeOffer
	}
	if n.stats.RemoteDescriptionSet {
		n.logger.Info("ignoring duplicate answer", slog.String("sender_id", msg.SenderID))
		return nil
	}

	answer, err := msg.SessionDescription()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.trace("remote answer", answer)

	if err := n.pc.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.stats.RemoteDescriptionSet = true
	n.stats.AnswersApplied++

	return n.flushCandidates()
}

// handleCandidate applies the candidate, or holds it until a remote
// description exists.
func (n *Negotiator) handleCandidate(_ context.Context, msg *signaling.Message) error {
	candidate, err := msg.ICECandidate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}

	if !n.stats.RemoteDescriptionSet {
		n.pending.PushBack(candidate)
		n.stats.CandidatesPending = n.pending.Len()
		return nil
	}

	return n.applyCandidate(candidate)
}

func (n *Negotiator) flushCandidates() error {
	for n.pending.Len() > 0 {
		if err := n.applyCandidate(n.pending.PopFront()); err != nil {
			n.stats.CandidatesPending = n.pending.Len()
			return err
		}
	}
	n.stats.CandidatesPending = 0
	return nil
}

func (n *Negotiator) applyCandidate(candidate webrtc.ICECandidateInit) error {
	if err := n.pc.AddICECandidate(candidate); err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	n.stats.CandidatesApplied++
	return nil
}

func (n *Negotiator) handleHangup(_ context.Context, msg *signaling.Message) error {
	hangup, err := msg.Hangup()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}

	n.logger.Info("remote hangup", slog.String("sender_id", msg.SenderID), slog.String("reason", hangup.Reason))

	if n.onHangup != nil {
		n.onHangup(hangup.Reason)
	}
	return nil
}

// SendCandidate trickles a local candidate to the counterpart.
func (n *Negotiator) SendCandidate(ctx context.Context, candidate webrtc.ICECandidateInit) error {
	msg, err := signaling.NewICECandidateMessage(n.self, candidate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	if n.role == RoleInitiator {
		n.candidates = append(n.candidates, msg)
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSignaling, err)
	}
	n.stats.CandidatesSent++
	return nil
}

// TrackArrived records a remote track and asks the sender for a key frame
// so video starts rendering without waiting for the next periodic one.
func (n *Negotiator) TrackArrived(track pkgwebrtc.RemoteTrack) {
	n.stats.RemoteTracks++

	if track.Kind() != webrtc.RTPCodecTypeVideo {
		return
	}
	if err := n.pc.RequestKeyFrame(track.SSRC()); err != nil {
		n.logger.Warn("failed to request key frame", slog.String("track_id", track.ID()), slog.String("error", err.Error()))
	}
}

// Ready reports whether both descriptions are set and media is flowing.
func (n *Negotiator) Ready() bool {
	return n.stats.LocalDescriptionSet && n.stats.RemoteDescriptionSet && n.stats.RemoteTracks > 0
}

// OnHangup registers fn for a hangup sent by the counterpart.
func (n *Negotiator) OnHangup(fn func(reason string)) {
	n.onHangup = fn
}

// Seal stops the Negotiator from accepting further offers.
func (n *Negotiator) Seal() {
	n.sealed = true
}

func (n *Negotiator) Stats() NegotiationStats {
	return n.stats
}

func (n *Negotiator) trace(label string, sd webrtc.SessionDescription) {
	sdpdebug.Log(label, sd)

	if n.sdpDumpDir == "" {
		return
	}
	if _, err := sdpdebug.Dump(n.sdpDumpDir, n.self+"_"+label, sd); err != nil {
		n.logger.Warn("failed to dump sdp", slog.String("error", err.Error()))
	}
}
