package flvtag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaderOK(t *testing.T) {
	// S1.
	in := []byte{0x46, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}
	h, n, err := ParseHeader(in)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.True(t, h.HasAudio)
	require.True(t, h.HasVideo)
}

func TestParseHeaderRejectsNoTracks(t *testing.T) {
	// S2.
	in := []byte{0x46, 0x4C, 0x56, 0x01, 0x00, 0x00, 0x00, 0x00, 0x09}
	_, n, err := ParseHeader(in)
	require.Error(t, err)
	require.Equal(t, 0, n)
}

func TestParseHeaderTruncated(t *testing.T) {
	_, n, err := ParseHeader([]byte{0x46, 0x4C, 0x56})
	require.Error(t, err)
	require.Equal(t, 0, n)
}

func TestParseHeaderBadSignature(t *testing.T) {
	in := []byte{0x00, 0x4C, 0x56, 0x01, 0x05, 0x00, 0x00, 0x00, 0x09}
	_, n, err := ParseHeader(in)
	require.Error(t, err)
	require.Equal(t, 0, n)
}
