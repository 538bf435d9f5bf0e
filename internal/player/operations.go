package player

import (
	"context"

	"github.com/mediaflow/flvplayer/internal/flvtag"
)

// NextAudio returns the next audio sample in file order, per spec
// §4.6's next_audio. It blocks (performing read/parse steps as
// needed) until a sample is available, the stream ends, an error
// occurs, or the engine is closed.
func (p *FlvPlayer) NextAudio(ctx context.Context) (flvtag.AudioSample, error) {
	var sample flvtag.AudioSample
	err := p.runOnWorker(ctx, func() error {
		for {
			if p.closed.Load() {
				return newSampleError(SampleCancel, "engine is closed")
			}
			if front := p.audioQueue.Front(); front != nil {
				sample = front.Value.(flvtag.AudioSample)
				p.audioQueue.Remove(front)
				return nil
			}
			if p.isEndOfStream {
				return newSampleError(SampleEndOfStream, "no more samples")
			}
			if p.isError {
				return wrapSampleError(SampleOther, p.lastErr)
			}
			p.readAndParseStep()
		}
	})
	return sample, err
}

// NextVideo returns the next video sample in file order, per spec
// §4.6's next_video. See NextAudio for the blocking behavior.
func (p *FlvPlayer) NextVideo(ctx context.Context) (flvtag.VideoSample, error) {
	var sample flvtag.VideoSample
	err := p.runOnWorker(ctx, func() error {
		for {
			if p.closed.Load() {
				return newSampleError(SampleCancel, "engine is closed")
			}
			if front := p.videoQueue.Front(); front != nil {
				sample = front.Value.(flvtag.VideoSample)
				p.videoQueue.Remove(front)
				return nil
			}
			if p.isEndOfStream {
				return newSampleError(SampleEndOfStream, "no more samples")
			}
			if p.isError {
				return wrapSampleError(SampleOther, p.lastErr)
			}
			p.readAndParseStep()
		}
	})
	return sample, err
}

// readAndParseStep is spec §4.6.1's read-and-parse step. It never
// returns an error directly: read or parse failures are recorded as
// engine state (isError/lastErr, isEndOfStream) for the driving
// NextAudio/NextVideo loop to observe on its next iteration. Because
// the task queue's single worker already serializes every operation,
// the spec's separate is_sample_reading flag and wait_queue are
// unnecessary here: no other operation can run concurrently with this
// one (see DESIGN.md's internal/taskqueue entry).
func (p *FlvPlayer) readAndParseStep() {
	n, err := p.readChunk()
	if err != nil {
		p.isError = true
		p.lastErr = err
		return
	}
	if n == 0 {
		p.isEndOfStream = true
		return
	}

	consumed, _, err := p.parser.ParseTags(p.readBuffer, flvtag.SampleOnly(p))
	p.readBuffer = p.readBuffer[consumed:]
	if err != nil {
		p.isError = true
		p.lastErr = err
	}
}

// Seek relocates the stream to the greatest keyframe at or before
// t100ns (or the earliest keyframe if t100ns precedes all of them),
// clears staging state, and returns the actual selected time. Per
// spec §4.6, a stream.Seek failure is recorded as engine error state
// rather than failing Seek itself; the next NextAudio/NextVideo call
// surfaces it.
func (p *FlvPlayer) Seek(ctx context.Context, t100ns int64) (int64, error) {
	var actual int64
	err := p.runOnWorker(ctx, func() error {
		if p.closed.Load() {
			return newSeekError(SeekCancel, "engine is closed")
		}
		if len(p.keyframes) == 0 {
			return newSeekError(SeekOther, "stream is not seekable")
		}

		entry := p.keyframes.lowerBound(float64(t100ns) / 1e7)

		p.readBuffer = p.readBuffer[:0]
		p.audioQueue.Init()
		p.videoQueue.Init()
		p.isEndOfStream = false
		p.isError = false
		p.lastErr = nil

		if err := p.stream.Seek(entry.Offset); err != nil {
			p.isError = true
			p.lastErr = err
		}

		actual = int64(entry.TimeSeconds * 1e7)
		return nil
	})
	return actual, err
}
