// Package readstream provides the byte-stream abstraction the FLV
// player reads from: a random-access file-backed variant and an
// input-only, non-seekable variant.
package readstream

import (
	"errors"
	"io"
	"os"
)

// ErrNotSeekable is returned by Seek on a stream that does not support
// random access.
var ErrNotSeekable = errors.New("readstream: stream is not seekable")

// Stream is the capability set the player engine reads through. Read
// returns the number of bytes copied into buf; a return of 0 with a
// nil error signals EOF. Seek repositions the stream to an absolute
// byte offset or fails with ErrNotSeekable.
type Stream interface {
	Read(buf []byte) (int, error)
	Seek(pos uint64) error
	CanSeek() bool
}

// FileStream is a random-access Stream backed by an *os.File.
type FileStream struct {
	f *os.File
}

// NewFileStream wraps an already-open file as a random-access Stream.
// The caller retains ownership of f and must close it.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{f: f}
}

// Read implements Stream.
func (s *FileStream) Read(buf []byte) (int, error) {
	n, err := s.f.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// Seek implements Stream.
func (s *FileStream) Seek(pos uint64) error {
	_, err := s.f.Seek(int64(pos), io.SeekStart)
	return err
}

// CanSeek implements Stream.
func (s *FileStream) CanSeek() bool {
	return true
}

// PipeStream is an input-only Stream backed by any io.Reader (a pipe,
// a network socket, stdin). Seek always fails.
type PipeStream struct {
	r io.Reader
}

// NewPipeStream wraps r as an input-only Stream.
func NewPipeStream(r io.Reader) *PipeStream {
	return &PipeStream{r: r}
}

// Read implements Stream.
func (s *PipeStream) Read(buf []byte) (int, error) {
	n, err := s.r.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// Seek implements Stream. It always fails: a PipeStream is input-only.
func (s *PipeStream) Seek(_ uint64) error {
	return ErrNotSeekable
}

// CanSeek implements Stream.
func (s *PipeStream) CanSeek() bool {
	return false
}
