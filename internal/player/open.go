package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mediaflow/flvplayer/internal/amf"
	"github.com/mediaflow/flvplayer/internal/flvtag"
)

// Open performs the spec §4.6.1 open sequence: it consumes the FLV
// file header, then reads and parses tags until the onMetaData script
// tag and both track configurations declared by the header have been
// observed, and projects the result into a MediaInfo map. Open may
// only be called once per FlvPlayer.
func (p *FlvPlayer) Open(ctx context.Context) (MediaInfo, error) {
	var info MediaInfo
	err := p.runOnWorker(ctx, func() error {
		if p.closed.Load() {
			return newOpenError(OpenCancel, "engine is closed")
		}
		m, err := p.openStep()
		if err != nil {
			return err
		}
		info = m
		return nil
	})
	return info, err
}

func (p *FlvPlayer) openStep() (MediaInfo, error) {
	if err := p.fillAtLeast(flvtag.FirstTagOffset); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newOpenError(OpenParseError, "stream ended before the FLV header was complete")
		}
		return nil, wrapOpenError(OpenIOError, err)
	}

	hdr, _, err := flvtag.ParseHeader(p.readBuffer)
	if err != nil {
		return nil, wrapOpenError(OpenParseError, err)
	}
	p.readBuffer = p.readBuffer[flvtag.FirstTagOffset:]

	for {
		consumed, _, err := p.parser.ParseTags(p.readBuffer, p)
		p.readBuffer = p.readBuffer[consumed:]
		if err != nil {
			return nil, wrapOpenError(OpenParseError, err)
		}

		if p.hasMetadata && (!hdr.HasAudio || p.isAudioCfgRead) && (!hdr.HasVideo || p.isVideoCfgRead) {
			break
		}

		n, err := p.readChunk()
		if err != nil {
			return nil, wrapOpenError(OpenIOError, err)
		}
		if n == 0 {
			return nil, newOpenError(OpenParseError, "stream ended before required metadata/configuration tags were observed")
		}
	}

	return p.projectMediaInfo()
}

// readChunk reads up to p.readChunkSize bytes from the stream,
// appending whatever was read to p.readBuffer. It returns the number
// of bytes read (0 meaning EOF, matching readstream.Stream's
// convention) and any read error.
func (p *FlvPlayer) readChunk() (int, error) {
	buf := make([]byte, p.readChunkSize)
	n, err := p.stream.Read(buf)
	if n > 0 {
		p.readBuffer = append(p.readBuffer, buf[:n]...)
	}
	return n, err
}

// fillAtLeast reads chunks until p.readBuffer holds at least n bytes,
// returning io.EOF if the stream ends first.
func (p *FlvPlayer) fillAtLeast(n int) error {
	for len(p.readBuffer) < n {
		read, err := p.readChunk()
		if err != nil {
			return err
		}
		if read == 0 {
			return io.EOF
		}
	}
	return nil
}

// projectMediaInfo builds the MediaInfo map and the keyframe index
// from the captured onMetaData value, per spec §4.6 step 3.
func (p *FlvPlayer) projectMediaInfo() (MediaInfo, error) {
	widthVal, ok := p.metadata.Lookup("width")
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData is missing required key "width"`)
	}
	width, ok := widthVal.Number()
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData "width" is not numeric`)
	}

	heightVal, ok := p.metadata.Lookup("height")
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData is missing required key "height"`)
	}
	height, ok := heightVal.Number()
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData "height" is not numeric`)
	}

	info := MediaInfo{
		"Width":  strconv.Itoa(int(width)),
		"Height": strconv.Itoa(int(height)),
	}

	if durVal, ok := p.metadata.Lookup("duration"); ok {
		if dur, ok := durVal.Number(); ok {
			info["Duration"] = strconv.FormatInt(int64(dur*1e7), 10)
		}
	}

	if p.isAudioCfgRead {
		info["AudioCodecPrivateData"] = p.audioCfg.PrivateDataHex()
	}

	idx, err := p.buildKeyframeIndex()
	if err != nil {
		return nil, err
	}
	p.keyframes = idx
	p.canSeek = p.stream.CanSeek() && len(p.keyframes) > 0
	if p.canSeek {
		info["CanSeek"] = "True"
	} else {
		info["CanSeek"] = "False"
	}

	return info, nil
}

// buildKeyframeIndex extracts the "keyframes" entry (filepositions[],
// times[]) from onMetaData. A missing "keyframes" entry simply leaves
// seeking disabled; a present-but-malformed one fails Open.
func (p *FlvPlayer) buildKeyframeIndex() (keyframeIndex, error) {
	kfVal, ok := p.metadata.Lookup("keyframes")
	if !ok {
		return nil, nil
	}

	timesVal, ok := kfVal.Lookup("times")
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData "keyframes" is missing "times"`)
	}
	posVal, ok := kfVal.Lookup("filepositions")
	if !ok {
		return nil, newOpenError(OpenParseError, `onMetaData "keyframes" is missing "filepositions"`)
	}

	times, err := numberSlice(timesVal)
	if err != nil {
		return nil, wrapOpenError(OpenParseError, fmt.Errorf(`onMetaData "keyframes.times": %w`, err))
	}
	positions, err := numberSlice(posVal)
	if err != nil {
		return nil, wrapOpenError(OpenParseError, fmt.Errorf(`onMetaData "keyframes.filepositions": %w`, err))
	}
	if len(times) == 0 || len(positions) == 0 {
		return nil, newOpenError(OpenParseError, `onMetaData "keyframes" arrays must not be empty`)
	}

	offsets := make([]uint64, len(positions))
	for i, v := range positions {
		offsets[i] = uint64(v)
	}

	return newKeyframeIndex(times, offsets)
}

// numberSlice reads the elements of an AMF0 StrictArray as float64s.
func numberSlice(v amf.Value) ([]float64, error) {
	if v.Kind != amf.KindStrictArray {
		return nil, fmt.Errorf("expected a strict array, got %s", v.Kind)
	}
	props := v.Properties()
	out := make([]float64, len(props))
	for i, prop := range props {
		n, ok := prop.Value.Number()
		if !ok {
			return nil, fmt.Errorf("element %d is not numeric", i)
		}
		out[i] = n
	}
	return out, nil
}
