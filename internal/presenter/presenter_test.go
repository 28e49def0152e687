package presenter_test

import (
	"testing"

	"github.com/HMasataka/telecall/internal/presenter"
	"github.com/HMasataka/telecall/pkg/media/mediatest"
	pkgwebrtc "github.com/HMasataka/telecall/pkg/webrtc"
	mock_webrtc "github.com/HMasataka/telecall/pkg/webrtc/mock"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSink_AttachRemote(t *testing.T) {
	t.Run("RTPを読み切って統計を残す", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		track := mock_webrtc.NewMockRemoteTrack(ctrl)
		track.EXPECT().ID().Return("remote-video").AnyTimes()
		track.EXPECT().Kind().Return(webrtc.RTPCodecTypeVideo).AnyTimes()
		track.EXPECT().Codec().Return(webrtc.RTPCodecParameters{
			RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8},
		})
		gomock.InOrder(
			track.EXPECT().ReadRTP().Return(&rtp.Packet{Payload: make([]byte, 100)}, nil),
			track.EXPECT().ReadRTP().Return(&rtp.Packet{Header: rtp.Header{Marker: true}, Payload: make([]byte, 50)}, nil),
			track.EXPECT().ReadRTP().Return(nil, pkgwebrtc.ErrRemoteTrackClosed),
		)
		track.EXPECT().Stats().Return(pkgwebrtc.RemoteTrackStats{PacketsReceived: 2, PacketsLost: 1})

		sink := presenter.New(0)
		sink.AttachRemote(track)
		sink.Close()

		stats := sink.Remote()
		require.Len(t, stats, 1)
		assert.Equal(t, presenter.TrackStats{
			ID:      "remote-video",
			Kind:    webrtc.RTPCodecTypeVideo,
			Remote:  true,
			Packets: 2,
			Bytes:   150,
			Frames:  1,
			Lost:    1,
			Codec:   webrtc.MimeTypeVP8,
			Ended:   true,
		}, stats[0])
	})

	t.Run("RTPを持たないトラックは一覧のみ", func(t *testing.T) {
		sink := presenter.New(0)
		defer sink.Close()

		local := mediatest.NewTrack(webrtc.RTPCodecTypeAudio, "mirror")
		sink.AttachLocal(local)
		sink.AttachRemote(local)

		tracks := sink.Tracks()
		require.Len(t, tracks, 2)
		assert.False(t, tracks[0].Remote)
		assert.True(t, tracks[1].Remote)
		assert.False(t, tracks[1].Ended)
	})
}

func TestSink_Close(t *testing.T) {
	sink := presenter.New(10)
	sink.Close()
	sink.Close()
}
