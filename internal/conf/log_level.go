package conf

import (
	"fmt"

	"github.com/mediaflow/flvplayer/internal/logger"
)

// LogLevel is the logLevel configuration parameter.
type LogLevel logger.Level

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LogLevel) UnmarshalYAML(unmarshal func(any) error) error {
	var in string
	if err := unmarshal(&in); err != nil {
		return err
	}

	switch in {
	case "error":
		*l = LogLevel(logger.Error)

	case "warn":
		*l = LogLevel(logger.Warn)

	case "info":
		*l = LogLevel(logger.Info)

	case "debug":
		*l = LogLevel(logger.Debug)

	default:
		return fmt.Errorf("invalid log level: '%s'", in)
	}

	return nil
}
