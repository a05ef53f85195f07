package psfile

import (
	"testing"

	"github.com/cwbudde/go-postscript/internal/object"
)

// TestASCII85DecodePLRMVector checks the PLRM-quoted decode vector (spec.md
// §8 testable property 9): "<~9jqo^BlbD-BleB1DJ+*+F(f,q~>" decodes to the
// ASCII bytes of "Man is distinguished".
func TestASCII85DecodePLRMVector(t *testing.T) {
	const encoded = "9jqo^BlbD-BleB1DJ+*+F(f,q~>"
	const want = "Man is distinguished"

	src := NewMemoryFile("test", []byte(encoded), ModeRead, nil)
	f := NewASCII85Filter(src)

	buf := object.NewString(len(want))
	got, ok := f.ReadString(buf)
	if !ok {
		t.Fatalf("ReadString reported EOF before filling %d bytes", len(want))
	}
	if got.AsString() != want {
		t.Fatalf("decoded = %q, want %q", got.AsString(), want)
	}
}

func TestASCII85DecodeZAbbreviation(t *testing.T) {
	src := NewMemoryFile("test", []byte("z~>"), ModeRead, nil)
	f := NewASCII85Filter(src)

	buf := object.NewString(4)
	got, ok := f.ReadString(buf)
	if !ok {
		t.Fatalf("ReadString reported EOF before filling 4 bytes")
	}
	for i := 0; i < 4; i++ {
		b, err := got.Get(i, "get")
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 (z expands to four zero bytes)", i, b)
		}
	}
}
