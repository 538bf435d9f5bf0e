package flvtag

import "github.com/mediaflow/flvplayer/internal/amf"

func buildTag(tagType byte, timestamp uint32, payload []byte) []byte {
	dataSize := uint32(len(payload))
	out := make([]byte, 0, tagHeaderSize+len(payload)+4)

	out = append(out, tagType)
	out = append(out, byte(dataSize>>16), byte(dataSize>>8), byte(dataSize))
	out = append(out, byte(timestamp>>16), byte(timestamp>>8), byte(timestamp))
	out = append(out, byte(timestamp>>24)) // TimestampExtended
	out = append(out, 0, 0, 0)             // StreamID

	out = append(out, payload...)

	prevTagSize := dataSize + 11
	out = append(out, byte(prevTagSize>>24), byte(prevTagSize>>16), byte(prevTagSize>>8), byte(prevTagSize))

	return out
}

// recordingVisitor captures every callback invocation for assertions.
type recordingVisitor struct {
	scriptTags   []string
	audioConfigs []AudioConfig
	videoConfigs []AVCConfig
	hevcConfigs  []HEVCConfig
	audioSamples []AudioSample
	videoSamples []VideoSample

	stopAfter int // if > 0, returns false once this many callbacks have fired
	fired     int
}

func (r *recordingVisitor) cont() bool {
	r.fired++
	if r.stopAfter > 0 && r.fired >= r.stopAfter {
		return false
	}
	return true
}

func (r *recordingVisitor) OnScriptTag(name string, _ amf.Value) bool {
	r.scriptTags = append(r.scriptTags, name)
	return r.cont()
}

func (r *recordingVisitor) OnAudioConfig(cfg AudioConfig) bool {
	r.audioConfigs = append(r.audioConfigs, cfg)
	return r.cont()
}

func (r *recordingVisitor) OnVideoConfig(cfg AVCConfig) bool {
	r.videoConfigs = append(r.videoConfigs, cfg)
	return r.cont()
}

func (r *recordingVisitor) OnHEVCVideoConfig(cfg HEVCConfig) bool {
	r.hevcConfigs = append(r.hevcConfigs, cfg)
	return r.cont()
}

func (r *recordingVisitor) OnAudioSample(s AudioSample) bool {
	r.audioSamples = append(r.audioSamples, s)
	return r.cont()
}

func (r *recordingVisitor) OnVideoSample(s VideoSample) bool {
	r.videoSamples = append(r.videoSamples, s)
	return r.cont()
}
