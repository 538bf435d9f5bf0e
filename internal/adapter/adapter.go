// Package adapter is the thin translation layer between a
// *player.FlvPlayer and a downstream media-framework sink: it pumps
// decoded samples out of the engine's pull-based Consumer API and
// pushes them into any Sink implementation, prepending VPS/SPS/PPS
// before key frames as spec §3 requires of "the consumer".
package adapter

import (
	"context"
	"errors"

	"github.com/mediaflow/flvplayer/internal/flvtag"
	"github.com/mediaflow/flvplayer/internal/player"
)

// startCode is the Annex-B NAL unit delimiter prepended ahead of each
// parameter set, matching the sample data's own 00 00 01 convention.
var startCode = []byte{0x00, 0x00, 0x01}

// Sink is a push-style destination for demultiplexed samples: a media
// framework's track writer, a test recorder, or similar.
type Sink interface {
	WriteAudio(ctx context.Context, s flvtag.AudioSample) error
	WriteVideo(ctx context.Context, s flvtag.VideoSample) error
	Close(ctx context.Context) error
}

// Pipe pumps audio and video samples from p into sink, one goroutine
// per track so a slow track never blocks the other, and returns once
// both pumps have stopped. Each pump stops on its own track's
// end_of_stream, on an error from the engine or the sink, or when ctx
// is canceled; one pump stopping does not stop the other. Pipe returns
// the first error reported, or nil. It does not call p.Close or
// sink.Close; the caller owns both lifecycles.
func Pipe(ctx context.Context, p *player.FlvPlayer, sink Sink) error {
	errCh := make(chan error, 2)
	go func() { errCh <- pumpAudio(ctx, p, sink) }()
	go func() { errCh <- pumpVideo(ctx, p, sink) }()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func pumpAudio(ctx context.Context, p *player.FlvPlayer, sink Sink) error {
	for {
		s, err := p.NextAudio(ctx)
		if err != nil {
			if isEndOfStream(err) {
				return nil
			}
			return err
		}
		if err := sink.WriteAudio(ctx, s); err != nil {
			return err
		}
	}
}

func pumpVideo(ctx context.Context, p *player.FlvPlayer, sink Sink) error {
	for {
		s, err := p.NextVideo(ctx)
		if err != nil {
			if isEndOfStream(err) {
				return nil
			}
			return err
		}

		if s.IsKeyFrame {
			data, err := prependParameterSets(ctx, p, s.Data)
			if err != nil {
				return err
			}
			s.Data = data
		}

		if err := sink.WriteVideo(ctx, s); err != nil {
			return err
		}
	}
}

// prependParameterSets builds VPS (HEVC only), SPS, PPS, then data,
// per spec §3's note that the consumer (not the engine) owns this
// assembly. Each non-empty parameter-set blob gets one start code;
// when the configuration record held several SPS or PPS units they are
// concatenated in one blob with no start codes between them.
func prependParameterSets(ctx context.Context, p *player.FlvPlayer, data []byte) ([]byte, error) {
	_, vps, sps, pps, err := p.VideoConfig(ctx)
	if err != nil {
		return nil, err
	}

	var out []byte
	for _, nal := range [][]byte{vps, sps, pps} {
		if len(nal) == 0 {
			continue
		}
		out = append(out, startCode...)
		out = append(out, nal...)
	}
	return append(out, data...), nil
}

func isEndOfStream(err error) bool {
	var sampleErr *player.SampleError
	return errors.As(err, &sampleErr) && sampleErr.Kind == player.SampleEndOfStream
}
