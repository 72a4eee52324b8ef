// Package types provides the core data types for the Quickbase engine.
package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Kind identifies which member of the FieldValue union is set.
type Kind uint8

const (
	// KindUint is an unsigned 64-bit integer field (the primary-key type).
	KindUint Kind = iota

	// KindInt is a signed 64-bit integer field.
	KindInt

	// KindText is a text field.
	KindText
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FieldValue is a closed tagged union of {unsigned integer, signed integer,
// text}. It is used both as a record field and as a secondary-index key; the
// struct holds only comparable scalars so it can key a Go map directly.
// Equality via == compares the tag first, so Uint(5) and Int(5) are distinct
// index keys.
type FieldValue struct {
	kind Kind
	u    uint64
	i    int64
	s    string
}

// Uint returns a FieldValue holding an unsigned integer.
func Uint(v uint64) FieldValue {
	return FieldValue{kind: KindUint, u: v}
}

// Int returns a FieldValue holding a signed integer.
func Int(v int64) FieldValue {
	return FieldValue{kind: KindInt, i: v}
}

// Text returns a FieldValue holding text.
func Text(v string) FieldValue {
	return FieldValue{kind: KindText, s: v}
}

// Kind returns the tag of the union.
func (f FieldValue) Kind() Kind {
	return f.kind
}

// Uint returns the unsigned integer member. Zero unless Kind() == KindUint.
func (f FieldValue) Uint() uint64 {
	return f.u
}

// Int returns the signed integer member. Zero unless Kind() == KindInt.
func (f FieldValue) Int() int64 {
	return f.i
}

// Text returns the text member. Empty unless Kind() == KindText.
func (f FieldValue) Text() string {
	return f.s
}

// String renders the value for display and logging.
func (f FieldValue) String() string {
	switch f.kind {
	case KindUint:
		return strconv.FormatUint(f.u, 10)
	case KindInt:
		return strconv.FormatInt(f.i, 10)
	default:
		return f.s
	}
}

// Compare imposes a total order over all FieldValues: first by tag
// (uint < int < text), then by the member value. The ordering keeps
// sorted-bucket iteration deterministic for callers that need it.
func (f FieldValue) Compare(o FieldValue) int {
	if f.kind != o.kind {
		if f.kind < o.kind {
			return -1
		}
		return 1
	}
	switch f.kind {
	case KindUint:
		switch {
		case f.u < o.u:
			return -1
		case f.u > o.u:
			return 1
		}
	case KindInt:
		switch {
		case f.i < o.i:
			return -1
		case f.i > o.i:
			return 1
		}
	default:
		switch {
		case f.s < o.s:
			return -1
		case f.s > o.s:
			return 1
		}
	}
	return 0
}

// Encode returns the canonical byte encoding of the value: one tag byte
// followed by the big-endian integer or the raw text bytes. Two values encode
// equal iff they compare equal, which makes the encoding safe to feed to the
// scan-filter hashes.
func (f FieldValue) Encode() []byte {
	switch f.kind {
	case KindUint:
		buf := make([]byte, 9)
		buf[0] = byte(KindUint)
		binary.BigEndian.PutUint64(buf[1:], f.u)
		return buf
	case KindInt:
		buf := make([]byte, 9)
		buf[0] = byte(KindInt)
		binary.BigEndian.PutUint64(buf[1:], uint64(f.i))
		return buf
	default:
		buf := make([]byte, 1+len(f.s))
		buf[0] = byte(KindText)
		copy(buf[1:], f.s)
		return buf
	}
}

// ParseAs parses match text into a value of the given kind. Numeric kinds
// require the entire string to parse (strconv consumes nothing partially), so
// malformed input fails closed. Text takes the raw string unchanged.
func ParseAs(k Kind, text string) (FieldValue, bool) {
	switch k {
	case KindUint:
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return FieldValue{}, false
		}
		return Uint(v), true
	case KindInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return FieldValue{}, false
		}
		return Int(v), true
	default:
		return Text(text), true
	}
}
