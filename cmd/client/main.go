package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HMasataka/telecall/internal/config"
	"github.com/HMasataka/telecall/internal/presenter"
	"github.com/HMasataka/telecall/pkg/call"
	"github.com/HMasataka/telecall/pkg/media"
	"github.com/HMasataka/telecall/pkg/media/device"
	sig "github.com/HMasataka/telecall/pkg/signal"
	"github.com/HMasataka/telecall/pkg/signal/wsrelay"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	"github.com/jessevdk/go-flags"
	"github.com/pion/webrtc/v4"
	"github.com/rs/xid"
)

const statsInterval = 5 * time.Second

type Options struct {
	Config  string `long:"config" description:"Config file path"`
	Verbose bool   `short:"v" long:"verbose" description:"Log SDP summaries and debug output"`
}

var opts Options

func setupLogger() {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// interruptContext is canceled on SIGINT or SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// run starts session and blocks until it ends or ctx is canceled.
func run(ctx context.Context, session *call.Session, extra <-chan struct{}) error {
	finished := make(chan struct{})
	session.OnStateChange(func(_, to call.State) {
		if to.Terminal() {
			close(finished)
		}
	})
	session.OnFailure(func(err error) {
		fmt.Fprintln(os.Stderr, call.Describe(err))
	})

	if err := session.Start(ctx); err != nil {
		session.Close()
		return err
	}

	select {
	case <-ctx.Done():
	case <-finished:
	case <-extra:
		slog.Warn("signaling relay disconnected")
	}

	session.Close()
	return session.Err()
}

type CallCommand struct {
	SessionID   string `long:"session-id" description:"Session ID" required:"true"`
	Participant string `long:"participant" description:"Participant ID (overrides config)"`
	Role        string `long:"role" description:"Role in the call" choice:"initiator" choice:"responder" default:"initiator"`
	AudioOnly   bool   `long:"audio-only" description:"Join without the camera"`
}

func (cmd *CallCommand) Execute(args []string) error {
	setupLogger()

	conf, err := config.Load(opts.Config)
	if err != nil {
		return err
	}

	participant := call.Participant{ID: conf.Participant.ID, DisplayName: conf.Participant.DisplayName}
	if cmd.Participant != "" {
		participant.ID = cmd.Participant
	}
	if participant.ID == "" {
		participant.ID = xid.New().String()
	}

	role := call.RoleInitiator
	if cmd.Role == "responder" {
		role = call.RoleResponder
	}

	constraints := conf.Media
	if cmd.AudioOnly {
		constraints.Video = false
	}

	source, err := device.NewSource()
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	client, err := wsrelay.Dial(ctx, conf.RelayOptions())
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	defer client.Close()

	pcOptions := conf.PeerConnectionOptions()
	pcOptions.RegisterCodecs = func(m *webrtc.MediaEngine) error {
		source.PopulateMediaEngine(m)
		return nil
	}

	sink := presenter.New(statsInterval)
	defer sink.Close()

	session, err := call.NewSession(call.Config{
		SessionID:          cmd.SessionID,
		Participant:        participant,
		Role:               role,
		Mode:               call.ModeLive,
		Constraints:        constraints,
		NegotiationTimeout: conf.NegotiationTimeout(),
		SDPDumpDir:         conf.Session.SDPDumpDir,
	}, call.Components{
		Capturer:  media.NewManager(source),
		Connector: sig.NewConnector(client, sig.DefaultSenderOptions()),
		PeerConnections: call.PeerConnectionFactoryFunc(func() (call.PeerConnection, error) {
			pc, err := pkgwebrtc.NewPeerConnection(pcOptions)
			if err != nil {
				return nil, err
			}
			return pc, nil
		}),
		Presenter: sink,
	})
	if err != nil {
		return err
	}

	slog.Info("joining call",
		slog.String("session_id", cmd.SessionID),
		slog.String("participant_id", participant.ID),
		slog.String("role", role.String()),
	)

	return run(ctx, session, client.Done())
}

type LoopbackCommand struct {
	Duration time.Duration `long:"duration" description:"Stop after this long (0 runs until interrupted)" default:"0s"`
}

func (cmd *LoopbackCommand) Execute(args []string) error {
	setupLogger()

	conf, err := config.Load(opts.Config)
	if err != nil {
		return err
	}

	source, err := device.NewSource()
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()
	if cmd.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, cmd.Duration)
		defer cancel()
	}

	sink := presenter.New(statsInterval)
	defer sink.Close()

	session, err := call.NewSession(call.Config{
		SessionID:   "loopback-" + xid.New().String(),
		Mode:        call.ModeLoopback,
		Constraints: conf.Media,
	}, call.Components{
		Capturer:  media.NewManager(source),
		Presenter: sink,
	})
	if err != nil {
		return err
	}

	if err := run(ctx, session, nil); err != nil {
		return err
	}

	for _, t := range sink.Tracks() {
		side := "local"
		if t.Remote {
			side = "remote"
		}
		fmt.Printf("%-8s %-6s %s\n", t.Kind, side, t.ID)
	}
	return nil
}

type DevicesCommand struct{}

func (cmd *DevicesCommand) Execute(args []string) error {
	setupLogger()

	source, err := device.NewSource()
	if err != nil {
		return err
	}

	manager := media.NewManager(source)
	ctx := context.Background()

	permission, err := manager.Permission(ctx)
	if err != nil {
		return err
	}

	devices, err := manager.Devices(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("permission: %s\n", permission)
	for _, d := range devices {
		kind := "camera"
		if d.Kind == media.DeviceKindAudioInput {
			kind = "microphone"
		}
		fmt.Printf("%-10s %s %s\n", kind, d.DeviceID, d.Label)
	}

	return nil
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.AddCommand("call", "Join a call", "Join a two-party call as initiator or responder", &CallCommand{})
	parser.AddCommand("loopback", "Test local devices", "Capture local media and mirror it without a counterpart", &LoopbackCommand{})
	parser.AddCommand("devices", "List capture devices", "", &DevicesCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
