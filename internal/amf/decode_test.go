package amf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeNumber(t *testing.T) {
	// S3: marker 0x00 followed by the big-endian double 12.0, stored
	// byte-reversed on the wire.
	in := []byte{0x00, 0x40, 0x28, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	v, n, err := Decode(in)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	num, ok := v.Number()
	require.True(t, ok)
	require.Equal(t, 12.0, num)
}

func TestDecodeString(t *testing.T) {
	// S4.
	in := []byte{0x02, 0x00, 0x05, 'h', 'e', 'l', 'l', 'o'}
	v, n, err := Decode(in)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	s, ok := v.String()
	require.True(t, ok)
	require.Equal(t, "hello", s)
}

func TestDecodeEmptyString(t *testing.T) {
	in := []byte{0x02, 0x00, 0x00}
	v, n, err := Decode(in)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	s, ok := v.String()
	require.True(t, ok)
	require.Equal(t, "", s)
}

func TestDecodeBoolean(t *testing.T) {
	v, n, err := Decode([]byte{0x01, 0x01})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	b, ok := v.Boolean()
	require.True(t, ok)
	require.True(t, b)

	v, n, err = Decode([]byte{0x01, 0x00})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	b, ok = v.Boolean()
	require.True(t, ok)
	require.False(t, b)
}

func TestDecodeObject(t *testing.T) {
	var raw []byte
	raw, err := Encode(raw, NewObject([]Property{
		{Name: "videocodecid", Value: NewNumber(7)},
		{Name: "duration", Value: NewNumber(12.5)},
	}))
	require.NoError(t, err)

	v, n, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, KindObject, v.Kind)

	val, ok := v.Lookup("duration")
	require.True(t, ok)
	num, ok := val.Number()
	require.True(t, ok)
	require.Equal(t, 12.5, num)
}

func TestDecodeObjectMissingTerminator(t *testing.T) {
	// A well-formed property followed by truncation instead of the
	// ObjectEnd sentinel.
	in := []byte{0x03, 0x00, 0x01, 'a', 0x00, 0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, _, err := Decode(in)
	require.Error(t, err)
}

func TestDecodeEcmaArrayEarlyTerminator(t *testing.T) {
	// Declared count of 5 but terminated by ObjectEnd after a single
	// property: early termination is permitted.
	var body []byte
	body = append(body, 0x08)
	body = append(body, 0x00, 0x00, 0x00, 0x05)
	// one property "a" -> true
	body = append(body, 0x00, 0x01, 'a', 0x01, 0x01)
	// terminator
	body = append(body, 0x00, 0x00, 0x09)

	v, n, err := Decode(body)
	require.NoError(t, err)
	require.Equal(t, len(body), n)
	require.Equal(t, KindEcmaArray, v.Kind)
	require.Equal(t, 1, v.Len())
}

func TestDecodeStrictArray(t *testing.T) {
	var raw []byte
	raw, err := Encode(raw, NewStrictArray([]Value{NewNumber(1), NewNumber(2), NewNumber(3)}))
	require.NoError(t, err)

	v, n, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, 3, v.Len())
}

func TestDecodeUnknownMarker(t *testing.T) {
	_, _, err := Decode([]byte{0xff})
	require.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {
	_, _, err := Decode([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}

func TestNewStringTooLong(t *testing.T) {
	_, err := NewString(string(make([]byte, maxStringLen+1)))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		NewNumber(3.1415),
		NewNumber(-0.0),
		NewBoolean(true),
		NewBoolean(false),
	}
	for _, sv := range []string{"", "hello", "onMetaData"} {
		s, err := NewString(sv)
		require.NoError(t, err)
		values = append(values, s)
	}
	values = append(values,
		NewObject([]Property{{Name: "a", Value: NewNumber(1)}}),
		NewEcmaArray([]Property{{Name: "b", Value: NewBoolean(true)}}),
		NewStrictArray([]Value{NewNumber(1), NewNumber(2)}),
		NewDate(1000),
	)

	for _, v := range values {
		var raw []byte
		raw, err := Encode(raw, v)
		require.NoError(t, err)

		got, n, err := Decode(raw)
		require.NoError(t, err)
		require.Equal(t, len(raw), n)
		require.Equal(t, v.Kind, got.Kind)

		switch v.Kind {
		case KindNumber, KindDate:
			a, _ := v.Number()
			b, _ := got.Number()
			require.Equal(t, a, b)
		case KindBoolean:
			a, _ := v.Boolean()
			b, _ := got.Boolean()
			require.Equal(t, a, b)
		case KindString:
			a, _ := v.String()
			b, _ := got.String()
			require.Equal(t, a, b)
		case KindObject, KindEcmaArray, KindStrictArray:
			require.Equal(t, v.Properties(), got.Properties())
		}
	}
}

func TestToEcmaArray(t *testing.T) {
	obj := NewObject([]Property{{Name: "x", Value: NewNumber(1)}})
	arr, ok := obj.ToEcmaArray()
	require.True(t, ok)
	require.Equal(t, KindEcmaArray, arr.Kind)
	require.Equal(t, 1, arr.Len())

	_, ok = NewNumber(1).ToEcmaArray()
	require.False(t, ok)
}
