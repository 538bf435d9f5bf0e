package amf

import (
	"encoding/binary"
	"math"
)

// Encode appends the wire representation of v to dst and returns the
// extended slice. It is the inverse of Decode and exists primarily to
// support round-trip testing; the parser itself is decode-only.
func Encode(dst []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		dst = append(dst, byte(markerNumber))
		return appendReversedFloat64(dst, v.number), nil

	case KindDate:
		dst = append(dst, byte(markerDate))
		dst = appendReversedFloat64(dst, v.number)
		return append(dst, 0, 0), nil

	case KindBoolean:
		dst = append(dst, byte(markerBoolean))
		if v.boolean {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil

	case KindString:
		dst = append(dst, byte(markerString))
		return appendRawString(dst, v.str)

	case KindObject:
		dst = append(dst, byte(markerObject))
		return appendProperties(dst, v.properties)

	case KindEcmaArray:
		dst = append(dst, byte(markerEcmaArray))
		var countBuf [4]byte
		binary.BigEndian.PutUint32(countBuf[:], uint32(len(v.properties)))
		dst = append(dst, countBuf[:]...)
		return appendProperties(dst, v.properties)

	case KindObjectEnd:
		return append(dst, byte(markerObjectEnd)), nil

	case KindStrictArray:
		dst = append(dst, byte(markerStrictArray))
		var countBuf [4]byte
		binary.BigEndian.PutUint32(countBuf[:], uint32(len(v.properties)))
		dst = append(dst, countBuf[:]...)
		var err error
		for _, p := range v.properties {
			dst, err = Encode(dst, p.Value)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	default:
		return nil, decodeErrorf("cannot encode unknown kind %d", int(v.Kind))
	}
}

func appendReversedFloat64(dst []byte, f float64) []byte {
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], math.Float64bits(f))
	return append(dst, be[:]...)
}

func appendRawString(dst []byte, s string) ([]byte, error) {
	if len(s) > maxStringLen {
		return nil, decodeErrorf("string of %d bytes exceeds the %d byte AMF0 limit", len(s), maxStringLen)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, s...), nil
}

func appendProperties(dst []byte, props []Property) ([]byte, error) {
	var err error
	for _, p := range props {
		dst, err = appendRawString(dst, p.Name)
		if err != nil {
			return nil, err
		}
		dst, err = Encode(dst, p.Value)
		if err != nil {
			return nil, err
		}
	}
	// ObjectEnd terminator: empty key + ObjectEnd value.
	dst, err = appendRawString(dst, "")
	if err != nil {
		return nil, err
	}
	return append(dst, byte(markerObjectEnd)), nil
}
