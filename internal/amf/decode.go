package amf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// marker is the AMF0 wire type tag, the first byte of an encoded value.
type marker byte

const (
	markerNumber      marker = 0x00
	markerBoolean     marker = 0x01
	markerString      marker = 0x02
	markerObject      marker = 0x03
	markerEcmaArray   marker = 0x08
	markerObjectEnd   marker = 0x09
	markerStrictArray marker = 0x0a
	markerDate        marker = 0x0b
)

// DecodeError reports a failure to decode an AMF0 value: truncated
// input, an unrecognized marker, or an internally inconsistent
// Object/EcmaArray/StrictArray body.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "amf: failed to decode: " + e.Reason
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// Decode reads a single AMF0 value starting at the beginning of b. It
// returns the decoded value and the number of bytes consumed. Decode
// never reads past len(b).
func Decode(b []byte) (Value, int, error) {
	if len(b) < 1 {
		return Value{}, 0, decodeErrorf("empty input")
	}

	switch marker(b[0]) {
	case markerNumber:
		return decodeNumber(b)
	case markerBoolean:
		return decodeBoolean(b)
	case markerString:
		return decodeString(b)
	case markerObject:
		return decodeObject(b)
	case markerEcmaArray:
		return decodeEcmaArray(b)
	case markerObjectEnd:
		return objectEnd, 1, nil
	case markerStrictArray:
		return decodeStrictArray(b)
	case markerDate:
		return decodeDate(b)
	default:
		return Value{}, 0, decodeErrorf("unknown type marker 0x%02x", b[0])
	}
}

// reversedFloat64 interprets 8 bytes as an IEEE-754 double stored in
// network (big-endian) byte order, i.e. byte-reversed relative to a
// little-endian host's native layout.
func reversedFloat64(b []byte) float64 {
	bits := binary.BigEndian.Uint64(b[:8])
	return math.Float64frombits(bits)
}

func decodeNumber(b []byte) (Value, int, error) {
	if len(b) < 9 {
		return Value{}, 0, decodeErrorf("truncated number")
	}
	v := reversedFloat64(b[1:9])
	return NewNumber(v), 9, nil
}

func decodeDate(b []byte) (Value, int, error) {
	// 8 bytes reversed-double milliseconds since epoch, followed by a
	// 16-bit timezone field that is skipped and discarded here.
	if len(b) < 11 {
		return Value{}, 0, decodeErrorf("truncated date")
	}
	v := reversedFloat64(b[1:9])
	return NewDate(v), 11, nil
}

func decodeBoolean(b []byte) (Value, int, error) {
	if len(b) < 2 {
		return Value{}, 0, decodeErrorf("truncated boolean")
	}
	return NewBoolean(b[1] != 0), 2, nil
}

// decodeRawString reads a U16-length-prefixed string starting at
// offset 0 of b (without any leading type marker). It returns the
// string and the number of bytes consumed (2 + length).
func decodeRawString(b []byte) (string, int, error) {
	if len(b) < 2 {
		return "", 0, decodeErrorf("truncated string length")
	}
	n := int(binary.BigEndian.Uint16(b[0:2]))
	if len(b) < 2+n {
		return "", 0, decodeErrorf("truncated string body")
	}
	return string(b[2 : 2+n]), 2 + n, nil
}

func decodeString(b []byte) (Value, int, error) {
	if len(b) < 1 {
		return Value{}, 0, decodeErrorf("truncated string")
	}
	s, n, err := decodeRawString(b[1:])
	if err != nil {
		return Value{}, 0, err
	}
	v, err := NewString(s)
	if err != nil {
		return Value{}, 0, err
	}
	return v, 1 + n, nil
}

// decodeProperties reads (string, value) pairs until it observes a
// pair whose key is empty and whose value is ObjectEnd, or until
// limit pairs have been read (limit < 0 means unbounded). It returns
// the properties read (excluding the terminator), the number of bytes
// consumed, and whether a terminator was observed.
func decodeProperties(b []byte, limit int) ([]Property, int, bool, error) {
	var props []Property
	pos := 0

	for limit < 0 || len(props) < limit {
		if pos >= len(b) {
			return nil, 0, false, decodeErrorf("truncated object body")
		}

		key, n, err := decodeRawString(b[pos:])
		if err != nil {
			return nil, 0, false, err
		}
		pos += n

		if pos >= len(b) {
			return nil, 0, false, decodeErrorf("truncated object value")
		}
		val, n, err := Decode(b[pos:])
		if err != nil {
			return nil, 0, false, err
		}
		pos += n

		if key == "" && val.Kind == KindObjectEnd {
			return props, pos, true, nil
		}

		props = append(props, Property{Name: key, Value: val})
	}

	return props, pos, false, nil
}

func decodeObject(b []byte) (Value, int, error) {
	props, n, terminated, err := decodeProperties(b[1:], -1)
	if err != nil {
		return Value{}, 0, err
	}
	if !terminated {
		return Value{}, 0, decodeErrorf("object missing ObjectEnd terminator")
	}
	return NewObject(props), 1 + n, nil
}

func decodeEcmaArray(b []byte) (Value, int, error) {
	if len(b) < 5 {
		return Value{}, 0, decodeErrorf("truncated ecma array count")
	}
	count := int(binary.BigEndian.Uint32(b[1:5]))

	props, n, terminated, err := decodeProperties(b[5:], count)
	if err != nil {
		return Value{}, 0, err
	}
	pos := 5 + n
	// After count pairs, consume the trailing empty-key ObjectEnd
	// terminator when it is present.
	if !terminated && len(b)-pos >= 3 && b[pos] == 0 && b[pos+1] == 0 && marker(b[pos+2]) == markerObjectEnd {
		pos += 3
	}
	return NewEcmaArray(props), pos, nil
}

func decodeStrictArray(b []byte) (Value, int, error) {
	if len(b) < 5 {
		return Value{}, 0, decodeErrorf("truncated strict array count")
	}
	count := int(binary.BigEndian.Uint32(b[1:5]))

	elems := make([]Value, 0, count)
	pos := 5
	for i := 0; i < count; i++ {
		if pos >= len(b) {
			return Value{}, 0, decodeErrorf("truncated strict array element %d", i)
		}
		v, n, err := Decode(b[pos:])
		if err != nil {
			return Value{}, 0, err
		}
		pos += n
		elems = append(elems, v)
	}

	return NewStrictArray(elems), pos, nil
}
