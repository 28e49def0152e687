// Package call runs one two-party audio/video call: it acquires local
// media, negotiates a peer connection over a signaling channel and tears
// everything down on every exit path.
package call

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/HMasataka/telecall/payload/signaling"
	"github.com/HMasataka/telecall/pkg/media"
	"github.com/HMasataka/telecall/pkg/signal"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/gammazero/workerpool"
	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

const (
	hangupReasonEnded  = "ended"
	hangupReasonFailed = "failed"
)

type Config struct {
	SessionID   string
	Participant Participant
	Role        Role
	Mode        Mode
	Constraints media.Constraints

	// NegotiationTimeout bounds the Signaling state. Zero waits until the
	// session is ended explicitly.
	NegotiationTimeout time.Duration

	// SDPDumpDir, when set, receives a copy of every description exchanged.
	SDPDumpDir string
}

func (c Config) validate() error {
	if c.SessionID == "" {
		return ErrEmptySessionID
	}
	if c.Mode == ModeLive && c.Participant.ID == "" {
		return ErrEmptyParticipantID
	}
	return nil
}

// Components are the collaborators a Session drives. Connector and
// PeerConnections are only used in live mode.
type Components struct {
	Capturer        Capturer
	Connector       signal.Connector
	PeerConnections PeerConnectionFactory
	Presenter       Presenter
}

// Session is one call attempt. Every input (API calls, signaling messages,
// peer connection events) runs on a single worker, so no two transitions
// ever overlap. Observers run on that worker and must not call the
// blocking Session methods.
type Session struct {
	cfg        Config
	components Components
	logger     *slog.Logger

	pool    *workerpool.WorkerPool
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	stopped bool
	state   State

	handle     *media.Handle
	channel    signal.Channel
	pc         PeerConnection
	negotiator *Negotiator
	timer      *time.Timer

	visibility   Visibility
	savedVideo   bool
	savedAudio   bool
	remoteTracks []Track
	failure      error

	observersMu sync.RWMutex
	onState     []func(from, to State)
	onFailure   []func(error)

	closeOnce sync.Once
}

func NewSession(cfg Config, components Components) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		cfg:        cfg,
		components: components,
		logger: slog.Default().With(
			slog.String("session_id", cfg.SessionID),
			slog.String("role", cfg.Role.String()),
			slog.String("mode", cfg.Mode.String()),
		),
		pool:   workerpool.New(1),
		ctx:    ctx,
		cancel: cancel,
		state:  StateIdle,
	}, nil
}

func (s *Session) ID() string {
	return s.cfg.SessionID
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the failure that ended the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failure
}

// OnStateChange registers fn for every transition.
func (s *Session) OnStateChange(fn func(from, to State)) {
	s.observersMu.Lock()
	s.onState = append(s.onState, fn)
	s.observersMu.Unlock()
}

// OnFailure registers fn for the error behind a failed or aborted call.
// It fires at most once per session.
func (s *Session) OnFailure(fn func(error)) {
	s.observersMu.Lock()
	s.onFailure = append(s.onFailure, fn)
	s.observersMu.Unlock()
}

// Start acquires local media and, in live mode, begins negotiation. It
// returns once the session is Signaling (live) or Active (loopback), or
// with the error that moved it to Failed.
func (s *Session) Start(ctx context.Context) error {
	var err error
	if !s.submitWait(func() { err = s.start(ctx) }) {
		return ErrSessionEnded
	}
	return err
}

// End hangs up. It is safe to call any number of times, before or after
// Close.
func (s *Session) End() {
	s.cancel()
	s.submitWait(func() { s.end(true, nil) })
}

// Close ends the session and stops its worker. It must not be called from
// an observer.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.End()

		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()

		s.pool.StopWait()
	})
}

// SetVideoEnabled toggles the camera. Enabling it when no camera track was
// acquired captures one and swaps it into the call without renegotiating.
func (s *Session) SetVideoEnabled(ctx context.Context, enabled bool) error {
	var err error
	if !s.submitWait(func() { err = s.setVideoEnabled(ctx, enabled) }) {
		return ErrSessionEnded
	}
	return err
}

func (s *Session) SetAudioEnabled(enabled bool) error {
	var err error
	if !s.submitWait(func() { err = s.setAudioEnabled(enabled) }) {
		return ErrSessionEnded
	}
	return err
}

// SetVisibility disables every local track while the session is in the
// background and restores the previous flags when it returns. It only
// applies to an Active session.
func (s *Session) SetVisibility(v Visibility) {
	s.submitWait(func() { s.setVisibility(v) })
}

// MediaEnabled reports the video and audio flags the user has chosen.
// While backgrounded these are the flags that will be restored.
func (s *Session) MediaEnabled() (video, audio bool) {
	s.submitWait(func() {
		switch {
		case s.visibility == VisibilityBackground:
			video, audio = s.savedVideo, s.savedAudio
		case s.handle != nil:
			video, audio = s.handle.VideoEnabled(), s.handle.AudioEnabled()
		}
	})
	return video, audio
}

func (s *Session) Negotiation() NegotiationStats {
	var stats NegotiationStats
	s.submitWait(func() {
		if s.negotiator != nil {
			stats = s.negotiator.Stats()
		}
	})
	return stats
}

func (s *Session) submit(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return
	}
	s.pool.Submit(fn)
}

// submitWait runs fn on the worker and reports whether it ran.
func (s *Session) submitWait(fn func()) bool {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return false
	}
	done := make(chan struct{})
	s.pool.Submit(func() {
		defer close(done)
		fn()
	})
	s.mu.RUnlock()

	<-done
	return true
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	prev := s.state
	if err := prev.ValidateTransition(next); err != nil {
		s.mu.Unlock()
		s.logger.Error("rejected state change", slog.String("error", err.Error()))
		return
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Info("session state changed", slog.String("from", prev.String()), slog.String("to", next.String()))

	s.observersMu.RLock()
	observers := s.onState
	s.observersMu.RUnlock()

	for _, fn := range observers {
		fn(prev, next)
	}
}

func (s *Session) start(ctx context.Context) error {
	switch state := s.State(); {
	case state.Terminal():
		return ErrSessionEnded
	case state != StateIdle:
		return ErrAlreadyStarted
	}

	s.transition(StateAcquiringMedia)

	acquireCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	handle, err := s.components.Capturer.Acquire(acquireCtx, s.cfg.Constraints)
	if err != nil {
		if s.ctx.Err() != nil {
			return ErrSessionEnded
		}
		s.fail(err)
		return err
	}
	if s.ctx.Err() != nil {
		handle.Release()
		return ErrSessionEnded
	}

	s.handle = handle
	handle.OnTrackAdded(func(t media.Track) {
		s.submit(func() { s.localTrackAdded(t) })
	})

	for _, t := range handle.Tracks() {
		s.components.Presenter.AttachLocal(t)
	}

	if s.cfg.Mode == ModeLoopback {
		for _, t := range handle.Tracks() {
			s.components.Presenter.AttachRemote(t)
		}
		s.transition(StateActive)
		return nil
	}

	if err := s.startNegotiation(ctx); err != nil {
		s.fail(err)
		return err
	}

	return nil
}

func (s *Session) startNegotiation(ctx context.Context) error {
	channel, err := s.components.Connector.Connect(ctx, s.cfg.SessionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignaling, err)
	}
	s.channel = channel

	pc, err := s.components.PeerConnections.NewPeerConnection()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}
	s.pc = pc

	s.negotiator = NewNegotiator(s.cfg.Role, s.cfg.Participant.ID, pc, s.send, s.logger)
	s.negotiator.sdpDumpDir = s.cfg.SDPDumpDir
	s.negotiator.OnHangup(func(string) { s.end(false, nil) })

	pc.OnICECandidate(func(c webrtc.ICECandidateInit) {
		s.submit(func() { s.localCandidate(c) })
	})
	pc.OnTrack(func(t pkgwebrtc.RemoteTrack) {
		s.submit(func() { s.remoteTrack(t) })
	})
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		s.submit(func() { s.connectionStateChanged(state) })
	})
	channel.OnError(func(err error) {
		s.submit(func() { s.signalingFailed(err) })
	})
	channel.OnMessage(func(msg *signaling.Message) {
		s.submit(func() { s.remoteMessage(msg) })
	})

	s.transition(StateSignaling)

	locals := lo.Map(s.handle.Tracks(), func(t media.Track, _ int) webrtc.TrackLocal {
		return t.Local()
	})
	if err := pc.AttachLocalTracks(locals); err != nil {
		return fmt.Errorf("%w: %w", ErrNegotiation, err)
	}

	if err := s.negotiator.Start(s.ctx); err != nil {
		return err
	}

	if s.cfg.NegotiationTimeout > 0 {
		s.timer = time.AfterFunc(s.cfg.NegotiationTimeout, func() {
			s.submit(s.negotiationTimedOut)
		})
	}

	return nil
}

func (s *Session) send(ctx context.Context, msg *signaling.Message) error {
	msg.SessionID = s.cfg.SessionID
	return s.channel.Send(ctx, msg)
}

func (s *Session) remoteMessage(msg *signaling.Message) {
	state := s.State()
	if state.Terminal() || state == StateEnding || s.negotiator == nil {
		return
	}

	err := s.negotiator.HandleMessage(s.ctx, msg)
	switch {
	case err == nil:
		s.checkConnected()
	case errors.Is(err, ErrAnswerBeforeOffer), errors.Is(err, ErrNoHandler):
		s.logger.Warn("rejected signaling message",
			slog.String("type", string(msg.Type)),
			slog.String("sender_id", msg.SenderID),
			slog.String("error", err.Error()),
		)
	default:
		s.negotiationFailed(err)
	}
}

func (s *Session) localCandidate(c webrtc.ICECandidateInit) {
	if s.State().Terminal() || s.negotiator == nil {
		return
	}
	if err := s.negotiator.SendCandidate(s.ctx, c); err != nil {
		s.negotiationFailed(err)
	}
}

func (s *Session) remoteTrack(t pkgwebrtc.RemoteTrack) {
	state := s.State()
	if state.Terminal() || state == StateEnding {
		return
	}

	s.logger.Info("remote track received",
		slog.String("track_id", t.ID()),
		slog.String("kind", t.Kind().String()),
	)

	s.negotiator.TrackArrived(t)

	if state == StateConnected || state == StateActive {
		s.components.Presenter.AttachRemote(t)
		return
	}

	s.remoteTracks = append(s.remoteTracks, t)
	s.checkConnected()
}

// checkConnected moves Signaling to Connected once the negotiation is
// complete, then hands the remote tracks to the presenter and goes Active.
func (s *Session) checkConnected() {
	if s.State() != StateSignaling || !s.negotiator.Ready() {
		return
	}

	s.stopTimer()
	s.negotiator.Seal()
	s.transition(StateConnected)

	for _, t := range s.remoteTracks {
		s.components.Presenter.AttachRemote(t)
	}
	s.remoteTracks = nil

	s.transition(StateActive)
}

func (s *Session) connectionStateChanged(state webrtc.PeerConnectionState) {
	s.logger.Debug("peer connection state changed", slog.String("state", state.String()))

	if state != webrtc.PeerConnectionStateFailed {
		return
	}

	switch current := s.State(); {
	case current.negotiating():
		s.fail(ErrPeerConnectionFailed)
	case current == StateConnected || current == StateActive:
		s.end(false, ErrPeerConnectionFailed)
	}
}

func (s *Session) signalingFailed(err error) {
	s.negotiationFailed(fmt.Errorf("%w: %w", ErrSignaling, err))
}

// negotiationFailed aborts a call still being set up. Once connected,
// media flows peer to peer and signaling problems are only logged.
func (s *Session) negotiationFailed(err error) {
	state := s.State()
	switch {
	case state.negotiating():
		s.fail(err)
	case state == StateConnected || state == StateActive:
		s.logger.Warn("signaling error after connect", slog.String("error", err.Error()))
	}
}

func (s *Session) negotiationTimedOut() {
	if s.State() == StateSignaling {
		s.fail(ErrNegotiationTimeout)
	}
}

func (s *Session) localTrackAdded(t media.Track) {
	if s.State().Terminal() {
		return
	}

	s.components.Presenter.AttachLocal(t)

	if s.cfg.Mode == ModeLoopback {
		s.components.Presenter.AttachRemote(t)
		return
	}
	if s.pc == nil || t.Kind() != webrtc.RTPCodecTypeVideo {
		return
	}
	if err := s.pc.ReplaceVideoTrack(t.Local()); err != nil {
		s.logger.Warn("failed to send new camera track", slog.String("error", err.Error()))
	}
}

func (s *Session) setVideoEnabled(ctx context.Context, enabled bool) error {
	if s.State().Terminal() {
		return ErrSessionEnded
	}
	if s.handle == nil {
		return ErrNoMedia
	}
	if s.visibility == VisibilityBackground {
		s.savedVideo = enabled
		return nil
	}

	acquireCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return s.handle.SetVideoEnabled(acquireCtx, enabled)
}

func (s *Session) setAudioEnabled(enabled bool) error {
	if s.State().Terminal() {
		return ErrSessionEnded
	}
	if s.handle == nil {
		return ErrNoMedia
	}
	if s.visibility == VisibilityBackground {
		s.savedAudio = enabled
		return nil
	}
	return s.handle.SetAudioEnabled(enabled)
}

func (s *Session) setVisibility(v Visibility) {
	if s.State() != StateActive || v == s.visibility {
		return
	}

	switch v {
	case VisibilityBackground:
		s.savedVideo = s.handle.VideoEnabled()
		s.savedAudio = s.handle.AudioEnabled()
		s.applyEnabled(false, false)
	case VisibilityForeground:
		s.applyEnabled(s.savedVideo, s.savedAudio)
	}
	s.visibility = v

	s.logger.Info("session visibility changed", slog.String("visibility", v.String()))
}

func (s *Session) applyEnabled(video, audio bool) {
	if err := s.handle.SetVideoEnabled(s.ctx, video); err != nil {
		s.logger.Warn("failed to toggle camera", slog.String("error", err.Error()))
	}
	if err := s.handle.SetAudioEnabled(audio); err != nil {
		s.logger.Warn("failed to toggle microphone", slog.String("error", err.Error()))
	}
}

// fail moves a session that never connected to Failed and releases
// everything it holds.
func (s *Session) fail(err error) {
	if !s.State().CanTransitionTo(StateFailed) {
		return
	}

	s.logger.Error("session failed", slog.String("error", err.Error()))

	s.hangup(hangupReasonFailed)
	s.teardown()
	s.transition(StateFailed)
	s.reportFailure(err)
}

// end runs Ending then Ended. notify sends a hangup to the counterpart;
// cause, when set, is reported to the failure observers.
func (s *Session) end(notify bool, cause error) {
	state := s.State()
	switch {
	case state.Terminal():
		return
	case state == StateIdle:
		s.transition(StateEnded)
		return
	}

	s.transition(StateEnding)
	if notify {
		s.hangup(hangupReasonEnded)
	}
	s.teardown()
	s.transition(StateEnded)

	if cause != nil {
		s.reportFailure(cause)
	}
}

func (s *Session) hangup(reason string) {
	if s.channel == nil || s.negotiator == nil {
		return
	}

	msg, err := signaling.NewHangupMessage(s.cfg.Participant.ID, reason)
	if err != nil {
		return
	}
	if err := s.send(context.Background(), msg); err != nil {
		s.logger.Debug("failed to send hangup", slog.String("error", err.Error()))
	}
}

// teardown releases whatever is held. Each resource is released once.
func (s *Session) teardown() {
	s.cancel()
	s.stopTimer()

	if s.pc != nil {
		if err := s.pc.Close(); err != nil {
			s.logger.Warn("failed to close peer connection", slog.String("error", err.Error()))
		}
		s.pc = nil
	}

	if s.channel != nil {
		if err := s.channel.Disconnect(); err != nil {
			s.logger.Warn("failed to disconnect signaling channel", slog.String("error", err.Error()))
		}
		s.channel = nil
	}

	if s.handle != nil {
		s.handle.Release()
	}

	s.remoteTracks = nil
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) reportFailure(err error) {
	s.mu.Lock()
	if s.failure != nil {
		s.mu.Unlock()
		return
	}
	s.failure = err
	s.mu.Unlock()

	s.observersMu.RLock()
	observers := s.onFailure
	s.observersMu.RUnlock()

	for _, fn := range observers {
		fn(err)
	}
}
