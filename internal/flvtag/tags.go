package flvtag

import (
	"fmt"

	"github.com/mediaflow/flvplayer/internal/amf"
)

const (
	tagTypeAudio  = 8
	tagTypeVideo  = 9
	tagTypeScript = 18
)

const tagHeaderSize = 11

// Parser is the incremental FLV tag state machine. The only state it
// carries across ParseTags calls is the NAL length-prefix width
// established by the most recent AVC/HEVC configuration record.
type Parser struct {
	lengthSize int
}

// NewParser allocates a Parser in its default state.
func NewParser() *Parser {
	return &Parser{}
}

// Reset restores default state, as if the Parser were newly
// constructed.
func (p *Parser) Reset() {
	p.lengthSize = 0
}

// ParseTags consumes whole tags from the front of b, invoking v for
// each. It returns the number of bytes consumed (the offset past the
// last fully parsed tag including its PreviousTagSize trailer) and
// whether a visitor callback requested early termination (Abort). If
// the remaining input is shorter than a complete tag, ParseTags
// returns the previously accumulated consumed count (0 if no tag has
// fully parsed yet) with aborted == false and err == nil; the caller
// is expected to append more bytes and retry.
func (p *Parser) ParseTags(b []byte, v Visitor) (consumed int, aborted bool, err error) {
	pos := 0

	for {
		if len(b)-pos < tagHeaderSize {
			return pos, false, nil
		}

		dataSize := u24(b[pos+1 : pos+4])
		timestamp := u24(b[pos+4 : pos+7])
		ext := b[pos+7]
		streamID := u24(b[pos+8 : pos+11])
		if streamID != 0 {
			return pos, false, fmt.Errorf("flvtag: non-zero StreamID %d", streamID)
		}

		total := tagHeaderSize + int(dataSize) + 4
		if len(b)-pos < total {
			return pos, false, nil
		}

		tagType := b[pos]
		payload := b[pos+tagHeaderSize : pos+tagHeaderSize+int(dataSize)]

		prevTagSizeOff := pos + tagHeaderSize + int(dataSize)
		prevTagSize := u32(b[prevTagSizeOff : prevTagSizeOff+4])
		if prevTagSize != dataSize+11 {
			return pos, false, fmt.Errorf("flvtag: PreviousTagSize %d does not match DataSize+11 (%d)", prevTagSize, dataSize+11)
		}

		tsUnsigned31 := timestamp | uint32(ext)<<24
		ts100ns := int64(tsUnsigned31) * 10_000

		cont, err := p.dispatchTag(tagType, payload, ts100ns, tsUnsigned31, v)
		if err != nil {
			return pos, false, err
		}

		pos += total

		if !cont {
			return pos, true, nil
		}
	}
}

func (p *Parser) dispatchTag(tagType byte, payload []byte, ts100ns int64, tsUnsigned31 uint32, v Visitor) (bool, error) {
	switch tagType {
	case tagTypeScript:
		return parseScriptTag(payload, v)
	case tagTypeAudio:
		return parseAudioTag(payload, ts100ns, v)
	case tagTypeVideo:
		return parseVideoTag(payload, tsUnsigned31, &p.lengthSize, v)
	default:
		// Tag types other than audio/video/script are outside this
		// format's scope (e.g. encryption); skip without failing.
		return true, nil
	}
}

func parseScriptTag(payload []byte, v Visitor) (bool, error) {
	nameVal, n, err := amf.Decode(payload)
	if err != nil {
		return false, err
	}
	name, ok := nameVal.String()
	if !ok {
		return false, fmt.Errorf("flvtag: script tag name is not an AMF string")
	}

	value, _, err := amf.Decode(payload[n:])
	if err != nil {
		return false, err
	}

	return v.OnScriptTag(name, value), nil
}

func u24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
