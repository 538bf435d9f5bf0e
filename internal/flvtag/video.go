package flvtag

import (
	"bytes"
	"fmt"

	"github.com/abema/go-mp4"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
)

const (
	codecIDAVC  = 7
	codecIDHEVC = 12
)

const (
	avcPacketTypeSequenceHeader = 0
	avcPacketTypeNALU           = 1
	avcPacketTypeEndOfSequence  = 2
)

// startCode is the Annex-B NAL unit delimiter this package emits,
// per spec §3: 00 00 01 (not the 4-byte 00 00 00 01 variant).
var startCode = []byte{0x00, 0x00, 0x01}

// parseVideoTag decodes an FLV video tag body. tsUnsigned31 is the
// tag's raw (timestamp | extended<<24) millisecond value, not yet
// scaled to 100-ns ticks. lengthSize is the NAL length-prefix width
// carried across calls on the owning Parser; it is read and possibly
// updated by this call.
func parseVideoTag(payload []byte, tsUnsigned31 uint32, lengthSize *int, v Visitor) (bool, error) {
	if len(payload) < 1 {
		return false, fmt.Errorf("flvtag: empty video tag")
	}

	frameType := payload[0] >> 4
	codecID := payload[0] & 0x0f
	isKeyFrame := frameType == 1

	if codecID != codecIDAVC && codecID != codecIDHEVC {
		return false, fmt.Errorf("flvtag: unsupported video CodecID %d", codecID)
	}

	if len(payload) < 5 {
		return false, fmt.Errorf("flvtag: truncated video tag")
	}
	packetType := payload[1]
	compositionTime := int32(payload[2])<<16 | int32(payload[3])<<8 | int32(payload[4])
	if compositionTime&0x800000 != 0 {
		// sign-extend the 24-bit S24 composition time
		compositionTime |= ^int32(0xffffff)
	}
	body := payload[5:]

	switch packetType {
	case avcPacketTypeSequenceHeader:
		if codecID == codecIDHEVC {
			cfg, err := parseHEVCConfig(body)
			if err != nil {
				return false, err
			}
			*lengthSize = cfg.LengthSize
			return v.OnHEVCVideoConfig(cfg), nil
		}

		cfg, err := parseAVCConfig(body)
		if err != nil {
			return false, err
		}
		*lengthSize = cfg.LengthSize
		return v.OnVideoConfig(cfg), nil

	case avcPacketTypeNALU:
		if *lengthSize == 0 {
			return false, fmt.Errorf("flvtag: NAL unit tag before a configuration record")
		}

		dts := int64(tsUnsigned31) * 10_000
		pts := dts + int64(compositionTime)*10_000

		data, err := assembleAnnexB(body, *lengthSize)
		if err != nil {
			return false, err
		}

		sample := VideoSample{
			DTSHundredNs: dts,
			PTSHundredNs: pts,
			IsKeyFrame:   isKeyFrame,
			Data:         data,
		}
		return v.OnVideoSample(sample), nil

	case avcPacketTypeEndOfSequence:
		return true, nil

	default:
		return false, fmt.Errorf("flvtag: unsupported AVCPacketType %d", packetType)
	}
}

// assembleAnnexB reads length-prefixed NAL units (prefix width
// lengthSize bytes) from b and concatenates them, each preceded by
// the 3-byte Annex-B start code.
func assembleAnnexB(b []byte, lengthSize int) ([]byte, error) {
	var out []byte
	pos := 0
	for pos < len(b) {
		if len(b)-pos < lengthSize {
			return nil, fmt.Errorf("flvtag: truncated NAL length prefix")
		}

		var naluLen int
		for i := 0; i < lengthSize; i++ {
			naluLen = naluLen<<8 | int(b[pos+i])
		}
		pos += lengthSize

		if naluLen == 0 || naluLen > len(b)-pos {
			return nil, fmt.Errorf("flvtag: invalid NAL unit length %d", naluLen)
		}

		out = append(out, startCode...)
		out = append(out, b[pos:pos+naluLen]...)
		pos += naluLen
	}
	return out, nil
}

// lengthSizeFromFlags maps the low 2 bits of the
// lengthSizeMinusOne/reserved byte to a NAL length-prefix width, per
// spec §4.3: {0->1, 1->2, 3->4, other->fail}.
func lengthSizeFromFlags(b byte) (int, error) {
	switch b & 0x03 {
	case 0:
		return 1, nil
	case 1:
		return 2, nil
	case 3:
		return 4, nil
	default:
		return 0, fmt.Errorf("flvtag: invalid length_size_minus_one %d", b&0x03)
	}
}

// parseAVCConfig decodes an AVCDecoderConfigurationRecord, generalized
// to N SPS and N PPS units (concatenated in declaration order).
func parseAVCConfig(b []byte) (AVCConfig, error) {
	if len(b) < 6 {
		return AVCConfig{}, fmt.Errorf("flvtag: truncated AVCDecoderConfigurationRecord")
	}
	if b[0] != 1 {
		return AVCConfig{}, fmt.Errorf("flvtag: unsupported configurationVersion %d", b[0])
	}

	lengthSize, err := lengthSizeFromFlags(b[4])
	if err != nil {
		return AVCConfig{}, err
	}

	pos := 5
	sps, pos, err := readNALUnitList(b, pos, 0x1f)
	if err != nil {
		return AVCConfig{}, err
	}
	pps, _, err := readNALUnitList(b, pos, 0xff)
	if err != nil {
		return AVCConfig{}, err
	}

	return AVCConfig{SPS: sps, PPS: pps, LengthSize: lengthSize}, nil
}

// readNALUnitList reads a (count-byte masked by countMask, then
// count * (U16 length, bytes)) sequence starting at pos and returns
// the concatenated NAL unit bytes and the offset just past the list.
func readNALUnitList(b []byte, pos int, countMask byte) ([]byte, int, error) {
	if pos >= len(b) {
		return nil, 0, fmt.Errorf("flvtag: truncated NAL unit count")
	}
	count := int(b[pos] & countMask)
	pos++

	var out []byte
	for i := 0; i < count; i++ {
		if len(b)-pos < 2 {
			return nil, 0, fmt.Errorf("flvtag: truncated NAL unit length")
		}
		n := int(b[pos])<<8 | int(b[pos+1])
		pos += 2
		if len(b)-pos < n {
			return nil, 0, fmt.Errorf("flvtag: truncated NAL unit body")
		}
		out = append(out, b[pos:pos+n]...)
		pos += n
	}

	return out, pos, nil
}

// parseHEVCConfig decodes an HEVCDecoderConfigurationRecord using
// go-mp4's box parser, extracting the VPS/SPS/PPS NAL units it
// carries.
func parseHEVCConfig(b []byte) (HEVCConfig, error) {
	var hvcc mp4.HvcC
	if _, err := mp4.Unmarshal(bytes.NewReader(b), uint64(len(b)), &hvcc, mp4.Context{}); err != nil {
		return HEVCConfig{}, fmt.Errorf("flvtag: invalid HEVCDecoderConfigurationRecord: %w", err)
	}

	vps := hevcFindNALU(hvcc.NaluArrays, h265.NALUType_VPS_NUT)
	sps := hevcFindNALU(hvcc.NaluArrays, h265.NALUType_SPS_NUT)
	pps := hevcFindNALU(hvcc.NaluArrays, h265.NALUType_PPS_NUT)
	if vps == nil || sps == nil || pps == nil {
		return HEVCConfig{}, fmt.Errorf("flvtag: HEVC parameter sets are missing")
	}

	lengthSize := int(hvcc.LengthSizeMinusOne) + 1
	if lengthSize != 1 && lengthSize != 2 && lengthSize != 4 {
		return HEVCConfig{}, fmt.Errorf("flvtag: invalid HEVC length_size_minus_one %d", hvcc.LengthSizeMinusOne)
	}

	return HEVCConfig{VPS: vps, SPS: sps, PPS: pps, LengthSize: lengthSize}, nil
}

func hevcFindNALU(arrays []mp4.HEVCNaluArray, typ h265.NALUType) []byte {
	for _, entry := range arrays {
		if entry.NaluType == byte(typ) && entry.NumNalus == 1 &&
			h265.NALUType((entry.Nalus[0].NALUnit[0]>>1)&0b111111) == typ {
			return entry.Nalus[0].NALUnit
		}
	}
	return nil
}
