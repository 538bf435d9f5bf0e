// Package conf holds configuration types shared by flvprobe, unmarshaled
// from YAML the same way mediamtx's own configuration is.
package conf

import "github.com/mediaflow/flvplayer/internal/logger"

// Config is the YAML configuration accepted by cmd/flvprobe.
type Config struct {
	LogLevel        LogLevel        `yaml:"logLevel"`
	LogDestinations LogDestinations `yaml:"logDestinations"`
	LogFile         string          `yaml:"logFile"`

	ReadChunkSize StringSize `yaml:"readChunkSize"`
	SeekTo        Duration   `yaml:"seekTo"`
}

// Default returns the configuration flvprobe starts from before a
// YAML file (if any) is applied.
func Default() Config {
	return Config{
		LogLevel:        LogLevel(logger.Warn),
		LogDestinations: LogDestinations{logger.DestinationStdout},
		ReadChunkSize:   StringSize(64 * 1024),
	}
}
