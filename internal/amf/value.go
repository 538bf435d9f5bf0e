// Package amf implements the AMF0 value model and wire decoder used by
// FLV script tags.
package amf

import "fmt"

// Kind identifies the concrete type held by a Value.
type Kind int

// Kind values, one per supported AMF0 type marker. The numeric values
// are not the wire marker bytes.
const (
	KindNumber Kind = iota
	KindBoolean
	KindString
	KindObject
	KindEcmaArray
	KindObjectEnd
	KindStrictArray
	KindDate
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	case KindObject:
		return "Object"
	case KindEcmaArray:
		return "EcmaArray"
	case KindObjectEnd:
		return "ObjectEnd"
	case KindStrictArray:
		return "StrictArray"
	case KindDate:
		return "Date"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// maxStringLen is the largest string the wire format can represent:
// a U16 length prefix.
const maxStringLen = 65535

// Property is a single (name, value) pair inside an Object or EcmaArray.
// Order is preserved; keys are not required to be unique.
type Property struct {
	Name  string
	Value Value
}

// Value is a tagged AMF0 value. Exactly one of the fields below is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind

	number     float64
	boolean    bool
	str        string
	properties []Property
}

// NewNumber builds a Number value.
func NewNumber(v float64) Value {
	return Value{Kind: KindNumber, number: v}
}

// NewBoolean builds a Boolean value.
func NewBoolean(v bool) Value {
	return Value{Kind: KindBoolean, boolean: v}
}

// NewString builds a String value. It returns an error if v exceeds the
// wire format's U16 length prefix.
func NewString(v string) (Value, error) {
	if len(v) > maxStringLen {
		return Value{}, fmt.Errorf("invalid_argument: string of %d bytes exceeds the %d byte AMF0 limit", len(v), maxStringLen)
	}
	return Value{Kind: KindString, str: v}, nil
}

// NewDate builds a Date value. The wire timezone field is not modeled;
// it is always read-and-discarded on decode and written as zero on
// encode.
func NewDate(v float64) Value {
	return Value{Kind: KindDate, number: v}
}

// NewObject builds an Object value from an ordered list of properties.
func NewObject(props []Property) Value {
	return Value{Kind: KindObject, properties: props}
}

// NewEcmaArray builds an EcmaArray value from an ordered list of
// properties.
func NewEcmaArray(props []Property) Value {
	return Value{Kind: KindEcmaArray, properties: props}
}

// NewStrictArray builds a StrictArray value from an ordered list of
// elements.
func NewStrictArray(elems []Value) Value {
	props := make([]Property, len(elems))
	for i, e := range elems {
		props[i] = Property{Value: e}
	}
	return Value{Kind: KindStrictArray, properties: props}
}

// objectEnd is the sentinel value used to terminate Object/EcmaArray
// decoding.
var objectEnd = Value{Kind: KindObjectEnd}

// Number returns the numeric payload and whether Kind is Number or Date.
func (v Value) Number() (float64, bool) {
	if v.Kind == KindNumber || v.Kind == KindDate {
		return v.number, true
	}
	return 0, false
}

// Boolean returns the boolean payload and whether Kind is Boolean.
func (v Value) Boolean() (bool, bool) {
	if v.Kind == KindBoolean {
		return v.boolean, true
	}
	return false, false
}

// String returns the string payload and whether Kind is String.
func (v Value) String() (string, bool) {
	if v.Kind == KindString {
		return v.str, true
	}
	return "", false
}

// Properties returns the ordered (name, value) pairs of an Object,
// EcmaArray, or StrictArray (where Name is empty for each element).
func (v Value) Properties() []Property {
	return v.properties
}

// Lookup returns the first property of an Object or EcmaArray whose
// name matches, by first-match semantics.
func (v Value) Lookup(name string) (Value, bool) {
	for _, p := range v.properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// ToEcmaArray widens an Object into an EcmaArray, preserving property
// order. If v is already an EcmaArray it is returned unchanged; any
// other Kind yields the zero Value and false.
func (v Value) ToEcmaArray() (Value, bool) {
	switch v.Kind {
	case KindEcmaArray:
		return v, true
	case KindObject:
		return Value{Kind: KindEcmaArray, properties: v.properties}, true
	default:
		return Value{}, false
	}
}

// Len returns the number of elements in a StrictArray, EcmaArray, or
// Object.
func (v Value) Len() int {
	return len(v.properties)
}
