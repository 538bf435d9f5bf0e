package player

import (
	"github.com/mediaflow/flvplayer/internal/amf"
)

const (
	tagTypeAudio  = 8
	tagTypeVideo  = 9
	tagTypeScript = 18
)

func putU24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// buildTag assembles one complete FLV tag (header + payload +
// PreviousTagSize trailer).
func buildTag(tagType byte, timestamp uint32, payload []byte) []byte {
	b := make([]byte, 11, 11+len(payload)+4)
	b[0] = tagType
	putU24(b[1:4], uint32(len(payload)))
	putU24(b[4:7], timestamp&0xffffff)
	b[7] = byte(timestamp >> 24)
	// StreamID (3 bytes) left zero.
	b = append(b, payload...)
	trailer := make([]byte, 4)
	putU32(trailer, uint32(len(payload))+11)
	return append(b, trailer...)
}

// buildHeader assembles the 9-byte FLV header plus its 4-byte
// PreviousTagSize0 trailer.
func buildHeader(hasAudio, hasVideo bool) []byte {
	var flags byte
	if hasAudio {
		flags |= 0x04
	}
	if hasVideo {
		flags |= 0x01
	}
	b := []byte{'F', 'L', 'V', 1, flags, 0, 0, 0, 9}
	return append(b, 0, 0, 0, 0)
}

func mustString(s string) amf.Value {
	v, err := amf.NewString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func buildScriptTagPayload(name string, value amf.Value) []byte {
	var b []byte
	var err error
	b, err = amf.Encode(b, mustString(name))
	if err != nil {
		panic(err)
	}
	b, err = amf.Encode(b, value)
	if err != nil {
		panic(err)
	}
	return b
}

// onMetaDataValue builds the onMetaData EcmaArray: width, height,
// duration, and (optionally) a keyframes entry with parallel
// times/filepositions StrictArrays.
func onMetaDataValue(width, height, durationSeconds float64, keyTimes []float64, keyPositions []float64) amf.Value {
	props := []amf.Property{
		{Name: "width", Value: amf.NewNumber(width)},
		{Name: "height", Value: amf.NewNumber(height)},
		{Name: "duration", Value: amf.NewNumber(durationSeconds)},
	}
	if keyTimes != nil {
		times := make([]amf.Value, len(keyTimes))
		for i, t := range keyTimes {
			times[i] = amf.NewNumber(t)
		}
		positions := make([]amf.Value, len(keyPositions))
		for i, p := range keyPositions {
			positions[i] = amf.NewNumber(p)
		}
		keyframes := amf.NewObject([]amf.Property{
			{Name: "times", Value: amf.NewStrictArray(times)},
			{Name: "filepositions", Value: amf.NewStrictArray(positions)},
		})
		props = append(props, amf.Property{Name: "keyframes", Value: keyframes})
	}
	return amf.NewEcmaArray(props)
}

// aacSequenceHeaderTag builds an AAC AudioSpecificConfig sequence
// header tag matching spec §8 scenario S5 (AOT=2, freqIdx=4 -> 44100
// Hz, channelCfg=2 -> stereo).
func aacSequenceHeaderTag(timestamp uint32) []byte {
	payload := []byte{0xAF, 0x00, 0x12, 0x10}
	return buildTag(tagTypeAudio, timestamp, payload)
}

func aacRawFrameTag(timestamp uint32, frame []byte) []byte {
	payload := append([]byte{0xAF, 0x01}, frame...)
	return buildTag(tagTypeAudio, timestamp, payload)
}

// avcSequenceHeaderTag builds an AVCDecoderConfigurationRecord sequence
// header tag with one SPS and one PPS, length-prefix width 4.
func avcSequenceHeaderTag(timestamp uint32, sps, pps []byte) []byte {
	body := []byte{1, 0x42, 0x00, 0x1e, 0xff /* lengthSizeMinusOne=3 -> width 4 */}
	body = append(body, 0xe1) // 1 SPS (0xe0 | count)
	spsLen := []byte{byte(len(sps) >> 8), byte(len(sps))}
	body = append(body, spsLen...)
	body = append(body, sps...)
	body = append(body, 1) // 1 PPS
	ppsLen := []byte{byte(len(pps) >> 8), byte(len(pps))}
	body = append(body, ppsLen...)
	body = append(body, pps...)

	payload := []byte{0x17, 0x00, 0, 0, 0} // keyframe, AVC, seq header, CTS=0
	payload = append(payload, body...)
	return buildTag(tagTypeVideo, timestamp, payload)
}

// avcNALUTag builds a video tag carrying one 4-byte-length-prefixed
// NAL unit.
func avcNALUTag(timestamp uint32, isKeyFrame bool, nal []byte) []byte {
	frameType := byte(2)
	if isKeyFrame {
		frameType = 1
	}
	payload := []byte{frameType<<4 | 7, 0x01, 0, 0, 0}
	var lenBuf [4]byte
	putU32(lenBuf[:], uint32(len(nal)))
	payload = append(payload, lenBuf[:]...)
	payload = append(payload, nal...)
	return buildTag(tagTypeVideo, timestamp, payload)
}
