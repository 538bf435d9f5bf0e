package flvtag

import "fmt"

// AudioSample is a single decoded AAC access unit (other sound formats,
// MP3 included, are rejected by the parser). Data excludes the FLV
// AACPacketType byte.
type AudioSample struct {
	TimestampHundredNs int64
	Data               []byte
}

// VideoSample is a single decoded access unit: one or more NAL units,
// each already prefixed with the Annex-B 00 00 01 start code.
type VideoSample struct {
	DTSHundredNs int64
	PTSHundredNs int64
	IsKeyFrame   bool
	Data         []byte
}

// AudioConfig is the AudioSpecificConfig decoded from an AAC sequence
// header, projected into the WAVEFORMATEX-shaped layout the engine
// publishes as AudioCodecPrivateData.
type AudioConfig struct {
	FormatTag             uint16
	Channels               uint16
	SamplePerSecond        uint32
	AverageBytesPerSecond  uint32
	BlockAlign             uint16
	BitsPerSample          uint16
	Size                   uint16
}

// PrivateDataHex renders the config as the 36-character uppercase hex
// string described in spec §6: little-endian
// {format_tag, channels, samples_per_sec, avg_bytes, block_align,
// bits_per_sample, size}.
func (c AudioConfig) PrivateDataHex() string {
	b := make([]byte, 18)
	putU16LE(b[0:2], c.FormatTag)
	putU16LE(b[2:4], c.Channels)
	putU32LE(b[4:8], c.SamplePerSecond)
	putU32LE(b[8:12], c.AverageBytesPerSecond)
	putU16LE(b[12:14], c.BlockAlign)
	putU16LE(b[14:16], c.BitsPerSample)
	putU16LE(b[16:18], c.Size)
	return fmt.Sprintf("%X", b)
}

func putU16LE(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// AVCConfig is the parsed AVCDecoderConfigurationRecord: concatenated
// SPS and PPS NAL unit bytes, plus the NAL length-prefix width in
// effect for subsequent PacketType 1 tags.
type AVCConfig struct {
	SPS        []byte
	PPS        []byte
	LengthSize int
}

// HEVCConfig is the parsed HEVCDecoderConfigurationRecord, additionally
// carrying VPS NAL units.
type HEVCConfig struct {
	VPS        []byte
	SPS        []byte
	PPS        []byte
	LengthSize int
}
