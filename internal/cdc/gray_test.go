package cdc

import (
	"math/bits"
	"testing"
)

func TestGrayEncode_SingleBitPerIncrement(t *testing.T) {
	// The single-bit-transition property must hold for any counter width,
	// not just the 5-bit pointers of a 16-slot queue.
	for _, width := range []uint{3, 5, 8, 12} {
		mask := uint64(1)<<width - 1
		for v := uint64(0); v <= mask; v++ {
			a := grayEncode(v)
			b := grayEncode((v + 1) & mask)
			if d := bits.OnesCount64(a ^ b); d != 1 {
				t.Fatalf("width %d: gray(%d) -> gray(%d) changed %d bits", width, v, (v+1)&mask, d)
			}
		}
	}
}

func TestGrayDecode_Inverse(t *testing.T) {
	for v := uint64(0); v < 1<<12; v++ {
		if got := grayDecode(grayEncode(v)); got != v {
			t.Fatalf("decode(encode(%d)) = %d", v, got)
		}
	}
}

func TestGrayEncode_Distinct(t *testing.T) {
	seen := make(map[uint64]uint64, 32)
	for v := uint64(0); v < 32; v++ {
		g := grayEncode(v)
		if prev, ok := seen[g]; ok {
			t.Fatalf("gray(%d) == gray(%d) == %#x", v, prev, g)
		}
		seen[g] = v
	}
}
