package media_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HMasataka/telecall/pkg/media"
	"github.com/HMasataka/telecall/pkg/media/mediatest"
	mock_media "github.com/HMasataka/telecall/pkg/media/mock"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestManager_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("映像と音声を取得", func(t *testing.T) {
		source := &mediatest.Source{}
		m := media.NewManager(source)

		h, err := m.Acquire(ctx, media.DefaultConstraints())
		require.NoError(t, err)

		assert.Len(t, h.Tracks(), 2)
		assert.True(t, h.VideoEnabled())
		assert.True(t, h.AudioEnabled())

		_, ok := h.VideoTrack()
		assert.True(t, ok)
		_, ok = h.AudioTrack()
		assert.True(t, ok)
	})

	t.Run("何も要求しない", func(t *testing.T) {
		m := media.NewManager(&mediatest.Source{})

		_, err := m.Acquire(ctx, media.Constraints{})
		assert.ErrorIs(t, err, media.ErrNothingRequested)
	})

	t.Run("権限拒否はそのまま返す", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)
		source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).Return(nil, media.ErrPermissionDenied).Times(1)

		_, err := media.NewManager(source).Acquire(ctx, media.DefaultConstraints())
		assert.ErrorIs(t, err, media.ErrPermissionDenied)
	})

	t.Run("制約を緩めて再試行する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)

		video := mediatest.NewTrack(webrtc.RTPCodecTypeVideo, "v")
		audio := mediatest.NewTrack(webrtc.RTPCodecTypeAudio, "a")

		gomock.InOrder(
			source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).Return(nil, media.ErrConstraintsUnsatisfiable),
			source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, c media.Constraints) ([]media.Track, error) {
					assert.Zero(t, c.FrameRate)
					assert.NotZero(t, c.Width)
					return []media.Track{video, audio}, nil
				}),
		)

		h, err := media.NewManager(source).Acquire(ctx, media.DefaultConstraints())
		require.NoError(t, err)
		assert.Len(t, h.Tracks(), 2)
	})

	t.Run("全ての緩和が失敗", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)
		source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).Return(nil, media.ErrConstraintsUnsatisfiable).Times(4)

		_, err := media.NewManager(source).Acquire(ctx, media.DefaultConstraints())
		assert.ErrorIs(t, err, media.ErrConstraintsUnsatisfiable)
	})

	t.Run("部分的な取得はロールバックする", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)

		audio := mediatest.NewTrack(webrtc.RTPCodecTypeAudio, "a")
		source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).Return([]media.Track{audio}, nil)

		_, err := media.NewManager(source).Acquire(ctx, media.DefaultConstraints())
		assert.ErrorIs(t, err, media.ErrDeviceNotFound)
		assert.Equal(t, 1, audio.Stops())
	})

	t.Run("エラーと一緒に返ったトラックも停止する", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)

		audio := mediatest.NewTrack(webrtc.RTPCodecTypeAudio, "a")
		source.EXPECT().GetUserMedia(gomock.Any(), gomock.Any()).Return([]media.Track{audio}, media.ErrDeviceBusy)

		_, err := media.NewManager(source).Acquire(ctx, media.DefaultConstraints())
		assert.ErrorIs(t, err, media.ErrDeviceBusy)
		assert.True(t, audio.Stopped())
	})

	t.Run("キャンセル済みのコンテキスト", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := media.NewManager(&mediatest.Source{}).Acquire(canceled, media.DefaultConstraints())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestManager_Permission(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		devices []media.DeviceInfo
		want    media.PermissionState
	}{
		{name: "デバイスなし", devices: nil, want: media.PermissionUnavailable},
		{
			name:    "ラベルなし",
			devices: []media.DeviceInfo{{DeviceID: "1", Kind: media.DeviceKindVideoInput}},
			want:    media.PermissionPrompt,
		},
		{
			name: "ラベルあり",
			devices: []media.DeviceInfo{
				{DeviceID: "1", Kind: media.DeviceKindVideoInput},
				{DeviceID: "2", Label: "Built-in Microphone", Kind: media.DeviceKindAudioInput},
			},
			want: media.PermissionGranted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := media.NewManager(&mediatest.Source{Devices: tt.devices})

			got, err := m.Permission(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("列挙エラー", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		source := mock_media.NewMockSource(ctrl)
		source.EXPECT().EnumerateDevices(gomock.Any()).Return(nil, errors.New("boom"))

		got, err := media.NewManager(source).Permission(ctx)
		assert.Error(t, err)
		assert.Equal(t, media.PermissionUnavailable, got)
	})
}

func TestHint(t *testing.T) {
	assert.Empty(t, media.Hint(nil))

	hints := map[string]bool{}
	for _, err := range []error{
		media.ErrPermissionDenied,
		media.ErrDeviceNotFound,
		media.ErrDeviceBusy,
		media.ErrConstraintsUnsatisfiable,
		errors.New("other"),
	} {
		hint := media.Hint(err)
		assert.NotEmpty(t, hint)
		hints[hint] = true
	}
	assert.Len(t, hints, 5)

	assert.True(t, media.IsCaptureError(media.ErrDeviceBusy))
	assert.False(t, media.IsCaptureError(media.ErrReleased))
}

func TestConstraints_Dimensions(t *testing.T) {
	c := media.Constraints{Width: 1280, Height: 720, Orientation: media.OrientationPortrait}
	w, h := c.Dimensions()
	assert.Equal(t, 720, w)
	assert.Equal(t, 1280, h)

	c.Orientation = media.OrientationLandscape
	w, h = c.Dimensions()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}
