package player

import (
	"context"

	"github.com/mediaflow/flvplayer/internal/flvtag"
)

// VideoConfig returns the most recently observed video configuration:
// the codec in effect ("avc" or "hevc") and its VPS (HEVC only), SPS
// and PPS NAL units, none of which carry Annex-B start codes. The
// adapter layer prepends these before each key frame's sample data,
// per spec §3's VideoSample note ("If is_key_frame, the consumer
// prepends VPS/SPS/PPS").
func (p *FlvPlayer) VideoConfig(ctx context.Context) (codec string, vps, sps, pps []byte, err error) {
	err = p.runOnWorker(ctx, func() error {
		codec = p.videoCodec
		vps = p.vps
		sps = p.sps
		pps = p.pps
		return nil
	})
	return
}

// AudioConfig returns the most recently observed AudioSpecificConfig
// projection and whether one has been read yet.
func (p *FlvPlayer) AudioConfig(ctx context.Context) (cfg flvtag.AudioConfig, ok bool, err error) {
	err = p.runOnWorker(ctx, func() error {
		ok = p.isAudioCfgRead
		if ok {
			cfg = p.audioCfg
		}
		return nil
	})
	return
}
