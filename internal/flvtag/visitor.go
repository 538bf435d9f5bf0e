package flvtag

import "github.com/mediaflow/flvplayer/internal/amf"

// Visitor receives parsed FLV tag content. Each method returns
// whether parsing should continue; returning false causes ParseTags
// to stop and report Abort.
type Visitor interface {
	OnScriptTag(name string, value amf.Value) bool
	OnAudioConfig(cfg AudioConfig) bool
	OnVideoConfig(cfg AVCConfig) bool
	OnHEVCVideoConfig(cfg HEVCConfig) bool
	OnAudioSample(s AudioSample) bool
	OnVideoSample(s VideoSample) bool
}

// sampleOnlyVisitor wraps a Visitor so that script and configuration
// tags are ignored (treated as no-ops, parsing continues) while
// sample tags are still forwarded. The player engine installs this
// during steady-state reads, reserving script/config handling for
// the open sequence (spec §4.6.1: "config/script callbacks nulled").
type sampleOnlyVisitor struct {
	inner Visitor
}

// SampleOnly adapts v so that script and configuration tags are
// ignored rather than forwarded.
func SampleOnly(v Visitor) Visitor {
	return sampleOnlyVisitor{inner: v}
}

func (sampleOnlyVisitor) OnScriptTag(_ string, _ amf.Value) bool { return true }
func (sampleOnlyVisitor) OnAudioConfig(_ AudioConfig) bool       { return true }
func (sampleOnlyVisitor) OnVideoConfig(_ AVCConfig) bool         { return true }
func (sampleOnlyVisitor) OnHEVCVideoConfig(_ HEVCConfig) bool    { return true }

func (v sampleOnlyVisitor) OnAudioSample(s AudioSample) bool { return v.inner.OnAudioSample(s) }
func (v sampleOnlyVisitor) OnVideoSample(s VideoSample) bool { return v.inner.OnVideoSample(s) }
