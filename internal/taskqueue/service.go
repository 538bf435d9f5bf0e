// Package taskqueue implements the cooperative single-thread task
// executor the player engine pins its state to: a FIFO of posted
// work items drained by one dedicated goroutine, plus a Hop call that
// waits for the worker to reach a posted marker task.
package taskqueue

import (
	"context"
	"fmt"

	"github.com/bluenviron/gortsplib/v4/pkg/ringbuffer"

	"github.com/mediaflow/flvplayer/internal/logger"
)

type ownerKey struct{}

// Service is a serial executor: Post enqueues work that runs FIFO on
// a single worker goroutine, and Hop blocks a caller until the worker
// has drained every task posted before it.
type Service struct {
	log logger.Writer

	buffer    *ringbuffer.RingBuffer
	workerCtx context.Context
	done      chan error
}

// New allocates a Service with the given posted-task queue capacity.
func New(queueSize int, parent logger.Writer) *Service {
	buffer, _ := ringbuffer.New(uint64(queueSize))

	s := &Service{
		log:    logger.NewLimitedLogger(parent),
		buffer: buffer,
		done:   make(chan error),
	}
	s.workerCtx = context.WithValue(context.Background(), ownerKey{}, s)
	return s
}

// Start launches the worker goroutine.
func (s *Service) Start() {
	go s.run()
}

// Stop drains no further tasks and waits for the worker to exit. It
// is not safe to call concurrently with itself.
func (s *Service) Stop() {
	s.buffer.Close()
	<-s.done
}

func (s *Service) run() {
	s.done <- s.runInner()
	close(s.done)
}

func (s *Service) runInner() error {
	for {
		item, ok := s.buffer.Pull()
		if !ok {
			return fmt.Errorf("taskqueue: terminated")
		}
		item.(func())()
	}
}

// Post enqueues a unit of work for FIFO execution on the worker
// goroutine. It returns false if the service has been stopped.
func (s *Service) Post(task func()) bool {
	ok := s.buffer.Push(task)
	if !ok {
		s.log.Log(logger.Warn, "task queue is full or closed")
	}
	return ok
}

// IsOwner reports whether ctx was handed to the caller from inside
// this Service's worker goroutine.
func (s *Service) IsOwner(ctx context.Context) bool {
	owner, _ := ctx.Value(ownerKey{}).(*Service)
	return owner == s
}

// Hop returns a context marked as owned by this Service. If ctx already
// carries that mark it is returned unchanged; otherwise Hop posts a
// task and blocks until the worker runs it (or ctx is canceled first),
// then returns the marked context. The caller keeps running on its own
// goroutine; Hop does not move execution onto the worker.
func (s *Service) Hop(ctx context.Context) (context.Context, error) {
	if s.IsOwner(ctx) {
		return ctx, nil
	}

	resumed := make(chan context.Context, 1)
	posted := s.Post(func() {
		resumed <- s.workerCtx
	})
	if !posted {
		return nil, fmt.Errorf("taskqueue: service is closed")
	}

	select {
	case workerCtx := <-resumed:
		return workerCtx, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
