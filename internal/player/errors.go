package player

import "fmt"

// OpenErrorKind classifies a failure of FlvPlayer.Open.
type OpenErrorKind int

// OpenErrorKind values.
const (
	OpenIOError OpenErrorKind = iota
	OpenParseError
	OpenCancel
	OpenOther
)

func (k OpenErrorKind) String() string {
	switch k {
	case OpenIOError:
		return "io_error"
	case OpenParseError:
		return "parse_error"
	case OpenCancel:
		return "cancel"
	default:
		return "other"
	}
}

// OpenError is returned by FlvPlayer.Open.
type OpenError struct {
	Kind    OpenErrorKind
	Message string
	Cause   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("player: open failed (%s): %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As.
func (e *OpenError) Unwrap() error { return e.Cause }

func newOpenError(kind OpenErrorKind, format string, args ...any) *OpenError {
	return &OpenError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapOpenError(kind OpenErrorKind, cause error) *OpenError {
	return &OpenError{Kind: kind, Message: cause.Error(), Cause: cause}
}

// SampleErrorKind classifies a failure of NextAudio/NextVideo.
type SampleErrorKind int

// SampleErrorKind values.
const (
	SampleEndOfStream SampleErrorKind = iota
	SampleIOError
	SampleParseError
	SampleCancel
	SampleOther
)

func (k SampleErrorKind) String() string {
	switch k {
	case SampleEndOfStream:
		return "end_of_stream"
	case SampleIOError:
		return "io_error"
	case SampleParseError:
		return "parse_error"
	case SampleCancel:
		return "cancel"
	default:
		return "other"
	}
}

// SampleError is returned by FlvPlayer.NextAudio / NextVideo.
type SampleError struct {
	Kind    SampleErrorKind
	Message string
	Cause   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("player: sample read failed (%s): %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As.
func (e *SampleError) Unwrap() error { return e.Cause }

func newSampleError(kind SampleErrorKind, format string, args ...any) *SampleError {
	return &SampleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapSampleError(kind SampleErrorKind, cause error) *SampleError {
	return &SampleError{Kind: kind, Message: cause.Error(), Cause: cause}
}

// SeekErrorKind classifies a failure of Seek.
type SeekErrorKind int

// SeekErrorKind values.
const (
	SeekCancel SeekErrorKind = iota
	SeekOther
)

func (k SeekErrorKind) String() string {
	if k == SeekCancel {
		return "cancel"
	}
	return "other"
}

// SeekError is returned by FlvPlayer.Seek.
type SeekError struct {
	Kind    SeekErrorKind
	Message string
	Cause   error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("player: seek failed (%s): %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As.
func (e *SeekError) Unwrap() error { return e.Cause }

func newSeekError(kind SeekErrorKind, format string, args ...any) *SeekError {
	return &SeekError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
