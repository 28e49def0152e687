package sdpdebug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offerSDP = "v=0\r\n" +
	"o=- 4596489990601351948 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"a=group:BUNDLE 0 1\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:0\r\n" +
	"a=sendrecv\r\n" +
	"a=rtpmap:96 VP8/90000\r\n" +
	"a=candidate:1 1 udp 2130706431 10.0.0.2 50000 typ host\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=mid:1\r\n" +
	"a=recvonly\r\n" +
	"a=rtpmap:111 opus/48000/2\r\n"

func TestSummarize(t *testing.T) {
	t.Run("メディアセクションを要約する", func(t *testing.T) {
		summary, err := Summarize(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: offerSDP})
		require.NoError(t, err)

		assert.Equal(t, webrtc.SDPTypeOffer, summary.Type)
		assert.Equal(t, 1, summary.Candidates)
		require.Len(t, summary.Media, 2)

		assert.Equal(t, Media{Kind: "video", Mid: "0", Direction: "sendrecv", Codecs: []string{"VP8/90000"}}, summary.Media[0])
		assert.Equal(t, Media{Kind: "audio", Mid: "1", Direction: "recvonly", Codecs: []string{"opus/48000/2"}}, summary.Media[1])
	})

	t.Run("不正なSDP", func(t *testing.T) {
		_, err := Summarize(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "garbage"})
		assert.Error(t, err)
	})
}

func TestDump(t *testing.T) {
	dir := t.TempDir()

	path, err := Dump(dir, "session/abc", webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: offerSDP})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "session-abc_answer")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, offerSDP, string(data))
}
