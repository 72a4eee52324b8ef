package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValueAccessors(t *testing.T) {
	u := Uint(42)
	if u.Kind() != KindUint || u.Uint() != 42 {
		t.Fatalf("expected uint 42, got kind=%v value=%d", u.Kind(), u.Uint())
	}

	i := Int(-7)
	if i.Kind() != KindInt || i.Int() != -7 {
		t.Fatalf("expected int -7, got kind=%v value=%d", i.Kind(), i.Int())
	}

	s := Text("hello")
	if s.Kind() != KindText || s.Text() != "hello" {
		t.Fatalf("expected text %q, got kind=%v value=%q", "hello", s.Kind(), s.Text())
	}
}

func TestFieldValueMapKey(t *testing.T) {
	// Same numeric value under different tags must be distinct map keys.
	m := map[FieldValue]string{
		Uint(5): "uint",
		Int(5):  "int",
	}
	if len(m) != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", len(m))
	}
	if m[Uint(5)] != "uint" || m[Int(5)] != "int" {
		t.Fatalf("tagged values collided: %v", m)
	}
}

func TestCompareTotalOrder(t *testing.T) {
	// Tag order: uint < int < text, then member value.
	ordered := []FieldValue{
		Uint(0), Uint(1), Uint(100),
		Int(-50), Int(0), Int(50),
		Text(""), Text("a"), Text("b"),
	}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Compare(ordered[j])
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(%v, %v) = %d, want < 0", ordered[i], ordered[j], got)
			case i > j && got <= 0:
				t.Errorf("Compare(%v, %v) = %d, want > 0", ordered[i], ordered[j], got)
			case i == j && got != 0:
				t.Errorf("Compare(%v, %v) = %d, want 0", ordered[i], ordered[j], got)
			}
		}
	}
}

func TestEncodeDistinguishesTags(t *testing.T) {
	if bytes.Equal(Uint(5).Encode(), Int(5).Encode()) {
		t.Fatal("uint and int encodings must differ")
	}
	if bytes.Equal(Text("5").Encode(), Uint(5).Encode()) {
		t.Fatal("text and uint encodings must differ")
	}
	// Equal values encode equal.
	if !bytes.Equal(Text("abc").Encode(), Text("abc").Encode()) {
		t.Fatal("equal values must encode equal")
	}
}

func TestParseAs(t *testing.T) {
	v, ok := ParseAs(KindUint, "123")
	assert.True(t, ok)
	assert.Equal(t, Uint(123), v)

	v, ok = ParseAs(KindInt, "-123")
	assert.True(t, ok)
	assert.Equal(t, Int(-123), v)

	// Text takes the raw string, never fails.
	v, ok = ParseAs(KindText, "12abc")
	assert.True(t, ok)
	assert.Equal(t, Text("12abc"), v)

	// Numeric parsing fails closed on malformed or partially numeric input.
	for _, bad := range []string{"", "abc", "12abc", " 12", "12 ", "1.5"} {
		if _, ok := ParseAs(KindUint, bad); ok {
			t.Errorf("ParseAs(KindUint, %q) should fail", bad)
		}
	}
	if _, ok := ParseAs(KindUint, "-1"); ok {
		t.Error("negative text must not parse as uint")
	}
	if _, ok := ParseAs(KindInt, "99999999999999999999999"); ok {
		t.Error("overflow must not parse")
	}
}

func TestFieldValueString(t *testing.T) {
	assert.Equal(t, "42", Uint(42).String())
	assert.Equal(t, "-7", Int(-7).String())
	assert.Equal(t, "abc", Text("abc").String())
}
