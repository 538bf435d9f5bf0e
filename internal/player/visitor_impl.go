package player

import (
	"github.com/mediaflow/flvplayer/internal/amf"
	"github.com/mediaflow/flvplayer/internal/flvtag"
)

// FlvPlayer implements flvtag.Visitor directly: the same callback set
// serves both the full install used during Open (script/config/sample
// tags all active) and, wrapped in flvtag.SampleOnly, the steady-state
// reads driven by NextAudio/NextVideo.
var _ flvtag.Visitor = (*FlvPlayer)(nil)

// OnScriptTag implements flvtag.Visitor. Only the first onMetaData tag
// is kept; later ones and any other script tag name are ignored.
func (p *FlvPlayer) OnScriptTag(name string, value amf.Value) bool {
	if p.hasMetadata || name != "onMetaData" {
		return true
	}
	widened, ok := value.ToEcmaArray()
	if !ok {
		return true
	}
	p.metadata = widened
	p.hasMetadata = true
	return true
}

// OnAudioConfig implements flvtag.Visitor.
func (p *FlvPlayer) OnAudioConfig(cfg flvtag.AudioConfig) bool {
	p.audioCfg = cfg
	p.isAudioCfgRead = true
	return true
}

// OnVideoConfig implements flvtag.Visitor.
func (p *FlvPlayer) OnVideoConfig(cfg flvtag.AVCConfig) bool {
	p.sps = cfg.SPS
	p.pps = cfg.PPS
	p.vps = nil
	p.videoCodec = "avc"
	p.isVideoCfgRead = true
	return true
}

// OnHEVCVideoConfig implements flvtag.Visitor.
func (p *FlvPlayer) OnHEVCVideoConfig(cfg flvtag.HEVCConfig) bool {
	p.vps = cfg.VPS
	p.sps = cfg.SPS
	p.pps = cfg.PPS
	p.videoCodec = "hevc"
	p.isVideoCfgRead = true
	return true
}

// OnAudioSample implements flvtag.Visitor. The corresponding config
// must already have been observed; otherwise parsing aborts (spec
// §4.6.2), since a sample cannot be decoded without its config.
func (p *FlvPlayer) OnAudioSample(s flvtag.AudioSample) bool {
	if !p.isAudioCfgRead {
		return false
	}
	p.noteFirstSampleTimestamp(s.TimestampHundredNs)
	s.TimestampHundredNs = p.adjustedTimestamp(s.TimestampHundredNs)
	p.audioQueue.PushBack(s)
	return true
}

// OnVideoSample implements flvtag.Visitor.
func (p *FlvPlayer) OnVideoSample(s flvtag.VideoSample) bool {
	if !p.isVideoCfgRead {
		return false
	}
	p.noteFirstSampleTimestamp(s.DTSHundredNs)
	s.DTSHundredNs = p.adjustedTimestamp(s.DTSHundredNs)
	s.PTSHundredNs = p.adjustedTimestamp(s.PTSHundredNs)
	p.videoQueue.PushBack(s)
	return true
}

// noteFirstSampleTimestamp records the first sample timestamp observed
// on a non-seekable stream, per spec §4.6.2 and the §9 open question
// on first_sample_timestamp. It is a no-op once a value is recorded or
// when the stream is seekable.
func (p *FlvPlayer) noteFirstSampleTimestamp(ts int64) {
	if p.stream.CanSeek() || p.firstSampleTimestamp != nil {
		return
	}
	p.firstSampleTimestamp = &ts
}

// adjustedTimestamp applies the (by default inert) first-sample
// normalisation described in DESIGN.md's open-question resolution.
func (p *FlvPlayer) adjustedTimestamp(ts int64) int64 {
	if !p.adjustTimestamps || p.firstSampleTimestamp == nil {
		return ts
	}
	return ts - *p.firstSampleTimestamp
}
