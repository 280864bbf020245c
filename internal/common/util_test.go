package common

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestGenerateRandByteArray_Basic(t *testing.T) {
	n := 32
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("want %d bytes, got %d", n, len(buf))
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	n := 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	if bytes.Equal(a, b) {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
		t.Fail()
	}
}

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("want 32 hex chars, got %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("not valid hex: %v", err)
	}
}
