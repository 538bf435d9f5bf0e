package logger

import "time"

// Destination is a log output sink kind.
type Destination int

// Destination values.
const (
	DestinationStdout Destination = iota
	DestinationFile
	DestinationSyslog
)

type destination interface {
	log(t time.Time, level Level, format string, args ...any)
	close()
}
