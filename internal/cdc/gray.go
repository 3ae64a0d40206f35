package cdc

// grayEncode converts a binary counter value to reflected-binary Gray code.
// Consecutive counter values differ in exactly one bit after encoding, so a
// value sampled mid-increment by the foreign domain is either the old or the
// new value, never a mixture.
func grayEncode(b uint64) uint64 {
	return b ^ (b >> 1)
}

// grayDecode converts a reflected-binary Gray code back to binary.
func grayDecode(g uint64) uint64 {
	b := g
	for g >>= 1; g != 0; g >>= 1 {
		b ^= g
	}
	return b
}
