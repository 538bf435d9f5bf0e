package flvtag

import "fmt"

const (
	soundFormatAAC = 10
	soundFormatMP3 = 2
)

const (
	aacPacketTypeSequenceHeader = 0
	aacPacketTypeRaw            = 1
)

// aacFrequencies is the standard MPEG-4 sampling-frequency-index
// table; indices 13-15 are reserved and rejected.
var aacFrequencies = [13]uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// parseAudioTag decodes an FLV audio tag body. ts100ns is the tag's
// timestamp already converted to 100-ns ticks. It returns whether
// parsing should continue.
func parseAudioTag(payload []byte, ts100ns int64, v Visitor) (bool, error) {
	if len(payload) < 1 {
		return false, fmt.Errorf("flvtag: empty audio tag")
	}

	soundFormat := payload[0] >> 4
	if soundFormat != soundFormatAAC {
		return false, fmt.Errorf("flvtag: unsupported audio SoundFormat %d", soundFormat)
	}

	if len(payload) < 2 {
		return false, fmt.Errorf("flvtag: truncated AAC audio tag")
	}
	packetType := payload[1]
	body := payload[2:]

	switch packetType {
	case aacPacketTypeSequenceHeader:
		cfg, err := parseAudioSpecificConfig(body)
		if err != nil {
			return false, err
		}
		return v.OnAudioConfig(cfg), nil

	case aacPacketTypeRaw:
		sample := AudioSample{
			TimestampHundredNs: ts100ns,
			Data:               append([]byte(nil), body...),
		}
		return v.OnAudioSample(sample), nil

	default:
		return false, fmt.Errorf("flvtag: unsupported AACPacketType %d", packetType)
	}
}

// parseAudioSpecificConfig decodes the first two bytes of an
// AudioSpecificConfig (AudioObjectType, SamplingFrequencyIndex,
// ChannelConfiguration) and projects the WAVEFORMATEX-shaped
// AudioConfig described in spec §4.3/§6.
func parseAudioSpecificConfig(b []byte) (AudioConfig, error) {
	if len(b) < 2 {
		return AudioConfig{}, fmt.Errorf("flvtag: truncated AudioSpecificConfig")
	}

	freqIdx := ((b[0] & 0x07) << 1) | (b[1] >> 7)
	channelCfg := (b[1] >> 3) & 0x0f

	if int(freqIdx) >= len(aacFrequencies) {
		return AudioConfig{}, fmt.Errorf("flvtag: reserved sampling frequency index %d", freqIdx)
	}
	if channelCfg < 1 || channelCfg > 7 {
		return AudioConfig{}, fmt.Errorf("flvtag: invalid channel configuration %d", channelCfg)
	}

	channels := uint16(channelCfg)
	if channelCfg == 7 {
		channels = 8
	}

	const bitsPerSample = 16
	samplePerSecond := aacFrequencies[freqIdx]
	blockAlign := channels * bitsPerSample / 8
	// WAVEFORMATEX convention: nAvgBytesPerSec = nSamplesPerSec * nBlockAlign.
	avgBytesPerSecond := samplePerSecond * uint32(blockAlign)

	return AudioConfig{
		FormatTag:             0x00ff,
		Channels:              channels,
		SamplePerSecond:       samplePerSecond,
		AverageBytesPerSecond: avgBytesPerSecond,
		BlockAlign:            blockAlign,
		BitsPerSample:         bitsPerSample,
		Size:                  0,
	}, nil
}
