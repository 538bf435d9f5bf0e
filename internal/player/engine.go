// Package player implements the cooperative FLV demultiplexer engine:
// it drives the flvtag parser over a readstream.Stream, owns sample
// queues and codec configuration state, and exposes a pull-based
// Open/NextAudio/NextVideo/Seek/Close API serialized on a
// taskqueue.Service worker.
package player

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mediaflow/flvplayer/internal/amf"
	"github.com/mediaflow/flvplayer/internal/flvtag"
	"github.com/mediaflow/flvplayer/internal/logger"
	"github.com/mediaflow/flvplayer/internal/readstream"
	"github.com/mediaflow/flvplayer/internal/taskqueue"
)

// MediaInfo is the string-keyed projection of onMetaData returned by
// Open; see spec keys Duration/Width/Height/CanSeek/AudioCodecPrivateData.
type MediaInfo map[string]string

// maxStagingRead is the largest chunk read into the staging buffer
// per read/parse step.
const maxStagingRead = 65536

// Option configures a FlvPlayer at construction time.
type Option func(*FlvPlayer)

// WithTimestampAdjustment toggles the first_sample_timestamp
// normalisation for non-seekable streams described in spec §9's open
// question. It defaults to false, matching the pre-rewrite behavior
// where the adjustment helper exists but is never invoked.
func WithTimestampAdjustment(enabled bool) Option {
	return func(p *FlvPlayer) {
		p.adjustTimestamps = enabled
	}
}

// WithLogger attaches a diagnostic logger. Defaults to a logger that
// discards everything.
func WithLogger(l logger.Writer) Option {
	return func(p *FlvPlayer) {
		p.log = l
	}
}

// WithReadChunkSize overrides the largest chunk read into the staging
// buffer per read/parse step. Defaults to maxStagingRead. Values <= 0
// are ignored.
func WithReadChunkSize(n int) Option {
	return func(p *FlvPlayer) {
		if n > 0 {
			p.readChunkSize = n
		}
	}
}

// FlvPlayer is the engine described in spec §4.6. All state it owns
// is touched exclusively from the taskqueue.Service worker that
// drives it; callers interact through the context-taking public
// methods below, which post self-contained closures to that worker
// and block for the result. Because the worker is a single goroutine
// draining one FIFO, posted operations are automatically serialized
// in arrival order -- the same at-most-one-in-flight and FIFO-resume
// guarantees spec §5 describes via an explicit wait_queue fall out of
// the task queue itself.
type FlvPlayer struct {
	svc    *taskqueue.Service
	stream readstream.Stream
	parser *flvtag.Parser
	log    logger.Writer

	adjustTimestamps bool
	readChunkSize    int

	closed    atomic.Bool
	closeOnce sync.Once

	// Fields below are only ever touched from inside a closure posted
	// to svc; the task queue's own serialization is what makes that
	// safe without a mutex.
	readBuffer []byte

	audioQueue *list.List // of flvtag.AudioSample
	videoQueue *list.List // of flvtag.VideoSample

	isVideoCfgRead bool
	isAudioCfgRead bool
	isEndOfStream  bool
	isError        bool
	lastErr        error

	vps        []byte
	sps        []byte
	pps        []byte
	videoCodec string // "avc" or "hevc"

	audioCfg flvtag.AudioConfig

	metadata    amf.Value
	hasMetadata bool

	keyframes keyframeIndex
	canSeek   bool

	firstSampleTimestamp *int64
}

// New constructs a FlvPlayer bound to svc and stream. svc must already
// be started (Start called) by the caller, who also owns its
// lifecycle; FlvPlayer.Close does not stop svc.
func New(svc *taskqueue.Service, stream readstream.Stream, opts ...Option) *FlvPlayer {
	p := &FlvPlayer{
		svc:           svc,
		stream:        stream,
		parser:        flvtag.NewParser(),
		log:           &logger.NilWriter{},
		readChunkSize: maxStagingRead,
		audioQueue:    list.New(),
		videoQueue:    list.New(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Close marks the engine closed. It is idempotent and takes effect
// immediately, even if a read/parse step is in flight on the worker:
// every operation observes the flag on its next check and fails with
// its kind's cancel variant.
func (p *FlvPlayer) Close(_ context.Context) error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
	})
	return nil
}

// errEngineClosed is posted back to a caller whose operation could
// not even be enqueued because the task queue has already stopped.
var errEngineClosed = errors.New("player: task queue is closed")

// runOnWorker posts fn to the engine's task queue and blocks the
// calling goroutine until fn runs to completion or ctx is canceled
// first. It is the sole bridge between the consumer-facing API (this
// package's exported methods) and engine state, which fn may touch
// freely: the task queue's single worker goroutine makes that safe
// without a mutex.
func (p *FlvPlayer) runOnWorker(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	posted := p.svc.Post(func() {
		done <- fn()
	})
	if !posted {
		return errEngineClosed
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
