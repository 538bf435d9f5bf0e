// Package main provides a CLI that opens a local FLV file or stdin,
// runs it through the player engine, and prints the discovered media
// info plus per-track sample counts once the stream is drained.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mediaflow/flvplayer/internal/conf"
	"github.com/mediaflow/flvplayer/internal/logger"
	"github.com/mediaflow/flvplayer/internal/player"
	"github.com/mediaflow/flvplayer/internal/readstream"
	"github.com/mediaflow/flvplayer/internal/taskqueue"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Open a local FLV file (or stdin) and print its media info and sample counts.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Example:")
	fmt.Fprintln(os.Stderr, "  flvprobe -input video.flv -config flvprobe.yml")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func loadConfig(path string) (conf.Config, error) {
	cfg := conf.Default()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	var (
		input      = flag.String("input", "", "path to an FLV file; reads stdin if empty")
		configPath = flag.String("config", "", "optional YAML config file (logLevel, logDestinations, readChunkSize, seekTo)")
		timeout    = flag.Duration("timeout", 30*time.Second, "overall context timeout")
	)
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(logger.Level(cfg.LogLevel), []logger.Destination(cfg.LogDestinations), cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	var f *os.File
	if *input == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(*input)
		if err != nil {
			log.Log(logger.Error, "open %s: %v", *input, err)
			os.Exit(1)
		}
		defer f.Close()
	}

	var stream readstream.Stream
	if *input != "" {
		stream = readstream.NewFileStream(f)
	} else {
		stream = readstream.NewPipeStream(f)
	}

	svc := taskqueue.New(256, log)
	svc.Start()
	defer svc.Stop()

	opts := []player.Option{
		player.WithLogger(log),
		player.WithReadChunkSize(int(cfg.ReadChunkSize)),
	}
	p := player.New(svc, stream, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	info, err := p.Open(ctx)
	if err != nil {
		log.Log(logger.Error, "open failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("media info:")
	for k, v := range info {
		fmt.Printf("  %s: %s\n", k, v)
	}

	if cfg.SeekTo != 0 {
		actual, err := p.Seek(ctx, int64(time.Duration(cfg.SeekTo)/100))
		if err != nil {
			log.Log(logger.Warn, "seek failed: %v", err)
		} else {
			fmt.Printf("seeked to %.3fs\n", float64(actual)/1e7)
		}
	}

	var audioCount, videoCount int
	var lastAudioTS, lastVideoTS int64

	for {
		s, err := p.NextAudio(ctx)
		if err != nil {
			if !isEndOfStream(err) {
				log.Log(logger.Error, "audio read failed: %v", err)
			}
			break
		}
		audioCount++
		lastAudioTS = s.TimestampHundredNs
	}

	for {
		s, err := p.NextVideo(ctx)
		if err != nil {
			if !isEndOfStream(err) {
				log.Log(logger.Error, "video read failed: %v", err)
			}
			break
		}
		videoCount++
		lastVideoTS = s.DTSHundredNs
	}

	fmt.Printf("audio samples: %d (last timestamp %.3fs)\n", audioCount, float64(lastAudioTS)/1e7)
	fmt.Printf("video samples: %d (last timestamp %.3fs)\n", videoCount, float64(lastVideoTS)/1e7)

	if err := p.Close(ctx); err != nil {
		log.Log(logger.Warn, "close failed: %v", err)
	}
}

func isEndOfStream(err error) bool {
	var sampleErr *player.SampleError
	return errors.As(err, &sampleErr) && sampleErr.Kind == player.SampleEndOfStream
}
