package player

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mediaflow/flvplayer/internal/amf"
	"github.com/mediaflow/flvplayer/internal/readstream"
	"github.com/mediaflow/flvplayer/internal/taskqueue"
)

func newTestPlayer(t *testing.T, body []byte) (*FlvPlayer, *taskqueue.Service) {
	t.Helper()
	svc := taskqueue.New(64, nil)
	svc.Start()
	t.Cleanup(svc.Stop)

	stream := readstream.NewPipeStream(bytes.NewReader(body))
	return New(svc, stream), svc
}

func TestOpenProjectsMediaInfo(t *testing.T) {
	sps := []byte{0x67, 0x42, 0x00, 0x1e}
	pps := []byte{0x68, 0xce, 0x3c, 0x80}

	var body []byte
	body = append(body, buildHeader(true, true)...)
	body = append(body, buildTag(tagTypeScript, 0, buildScriptTagPayload("onMetaData", onMetaDataValue(1280, 720, 12.5, nil, nil)))...)
	body = append(body, aacSequenceHeaderTag(0)...)
	body = append(body, avcSequenceHeaderTag(0, sps, pps)...)

	p, _ := newTestPlayer(t, body)
	info, err := p.Open(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1280", info["Width"])
	require.Equal(t, "720", info["Height"])
	require.Equal(t, "125000000", info["Duration"])
	require.Equal(t, "False", info["CanSeek"])
	require.Equal(t, "FF00020044AC000010B10200040010000000", info["AudioCodecPrivateData"])
}

func TestOpenFailsWithoutRequiredDimensions(t *testing.T) {
	var body []byte
	body = append(body, buildHeader(true, true)...)
	badMeta := amf.NewEcmaArray([]amf.Property{
		{Name: "duration", Value: amf.NewNumber(1)},
	})
	body = append(body, buildTag(tagTypeScript, 0, buildScriptTagPayload("onMetaData", badMeta))...)
	body = append(body, aacSequenceHeaderTag(0)...)
	body = append(body, avcSequenceHeaderTag(0, []byte{0x67}, []byte{0x68})...)

	p, _ := newTestPlayer(t, body)
	_, err := p.Open(context.Background())
	require.Error(t, err)
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	require.Equal(t, OpenParseError, openErr.Kind)
}

func TestNextAudioAndVideoDeliverSamplesInOrder(t *testing.T) {
	sps := []byte{0x67, 0x42, 0x00, 0x1e}
	pps := []byte{0x68, 0xce, 0x3c, 0x80}

	var body []byte
	body = append(body, buildHeader(true, true)...)
	body = append(body, buildTag(tagTypeScript, 0, buildScriptTagPayload("onMetaData", onMetaDataValue(640, 480, 0, nil, nil)))...)
	body = append(body, aacSequenceHeaderTag(0)...)
	body = append(body, avcSequenceHeaderTag(0, sps, pps)...)
	body = append(body, aacRawFrameTag(10, []byte{0xAA, 0xBB})...)
	body = append(body, avcNALUTag(10, true, []byte{0x65, 0x01, 0x02})...)
	body = append(body, aacRawFrameTag(20, []byte{0xCC, 0xDD})...)

	p, _ := newTestPlayer(t, body)
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	a1, err := p.NextAudio(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB}, a1.Data)
	require.Equal(t, int64(100_000), a1.TimestampHundredNs)

	v1, err := p.NextVideo(context.Background())
	require.NoError(t, err)
	require.True(t, v1.IsKeyFrame)
	require.Equal(t, append([]byte{0x00, 0x00, 0x01}, 0x65, 0x01, 0x02), v1.Data)

	a2, err := p.NextAudio(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte{0xCC, 0xDD}, a2.Data)

	_, err = p.NextAudio(context.Background())
	require.Error(t, err)
	var sampleErr *SampleError
	require.ErrorAs(t, err, &sampleErr)
	require.Equal(t, SampleEndOfStream, sampleErr.Kind)

	// End of stream is sticky: repeated calls keep returning the same kind.
	_, err = p.NextAudio(context.Background())
	require.ErrorAs(t, err, &sampleErr)
	require.Equal(t, SampleEndOfStream, sampleErr.Kind)
}

func TestCloseCancelsPendingAndFutureOperations(t *testing.T) {
	var body []byte
	body = append(body, buildHeader(true, true)...)
	body = append(body, buildTag(tagTypeScript, 0, buildScriptTagPayload("onMetaData", onMetaDataValue(640, 480, 0, nil, nil)))...)
	body = append(body, aacSequenceHeaderTag(0)...)
	body = append(body, avcSequenceHeaderTag(0, []byte{0x67}, []byte{0x68})...)

	p, _ := newTestPlayer(t, body)
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, p.Close(context.Background())) // idempotent

	_, err = p.NextAudio(context.Background())
	require.Error(t, err)
	var sampleErr *SampleError
	require.ErrorAs(t, err, &sampleErr)
	require.Equal(t, SampleCancel, sampleErr.Kind)

	_, err = p.Seek(context.Background(), 0)
	require.Error(t, err)
	var seekErr *SeekError
	require.ErrorAs(t, err, &seekErr)
	require.Equal(t, SeekCancel, seekErr.Kind)
}

func TestSeekSelectsGreatestKeyframeNotExceedingTarget(t *testing.T) {
	var body []byte
	body = append(body, buildHeader(true, false)...)
	meta := onMetaDataValue(320, 240, 7.0,
		[]float64{0.0, 2.5, 7.0},
		[]float64{13, 8192, 65536})
	body = append(body, buildTag(tagTypeScript, 0, buildScriptTagPayload("onMetaData", meta))...)
	body = append(body, aacSequenceHeaderTag(0)...)

	p, _ := newTestPlayer(t, body)
	// PipeStream never reports CanSeek, so swap in a stream that does,
	// exercising the seekable branch of Open/Seek.
	p.stream = fakeSeekableStream{PipeStream: readstream.NewPipeStream(bytes.NewReader(body))}

	info, err := p.Open(context.Background())
	require.NoError(t, err)
	require.Equal(t, "True", info["CanSeek"])

	actual, err := p.Seek(context.Background(), 3_0000000)
	require.NoError(t, err)
	require.Equal(t, int64(25_000_000), actual)
}

type fakeSeekableStream struct {
	*readstream.PipeStream
}

func (fakeSeekableStream) CanSeek() bool { return true }

func (fakeSeekableStream) Seek(uint64) error { return nil }
