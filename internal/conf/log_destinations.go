package conf

import (
	"fmt"

	"github.com/mediaflow/flvplayer/internal/logger"
)

// LogDestinations is the logDestinations configuration parameter.
type LogDestinations []logger.Destination

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *LogDestinations) UnmarshalYAML(unmarshal func(any) error) error {
	var in []string
	if err := unmarshal(&in); err != nil {
		return err
	}

	out := make([]logger.Destination, len(in))
	for i, v := range in {
		switch v {
		case "stdout":
			out[i] = logger.DestinationStdout

		case "file":
			out[i] = logger.DestinationFile

		case "syslog":
			out[i] = logger.DestinationSyslog

		default:
			return fmt.Errorf("invalid log destination: '%s'", v)
		}
	}

	*d = out
	return nil
}
