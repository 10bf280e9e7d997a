package driver

import "testing"

func TestParseBitsRoundTrip(t *testing.T) {
	cases := map[string]Bits{
		"i8": Int8, "i16": Int16, "i32": Int32, "i64": Int64,
		"u8": Uint8, "u16": Uint16, "u32": Uint32, "u64": Uint64,
	}
	for s, want := range cases {
		got, err := ParseBits(s)
		if err != nil {
			t.Fatalf("ParseBits(%q) failed: %s", s, err)
		}
		if got != want {
			t.Fatalf("ParseBits(%q) = %v, want %v", s, got, want)
		}
		if got.String() != s {
			t.Fatalf("%v.String() = %q, want %q", got, got.String(), s)
		}
	}
}

func TestParseBitsRejectsUnknown(t *testing.T) {
	if _, err := ParseBits("i128"); err == nil {
		t.Fatal("expected ParseBits(\"i128\") to fail: no native 128-bit integer is supported")
	}
}
