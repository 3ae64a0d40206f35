package domain

import "encoding/binary"

// KeepAll marks every byte lane of a frame as valid.
const KeepAll uint8 = 0xFF

// Frame is one beat of the output stream: an 8-byte data word, a per-byte
// validity mask, and an end-of-record marker. Frames are transient: the
// encoder produces them one at a time and the sink consumes them under the
// ready/valid handshake.
type Frame struct {
	// Data holds the beat payload. Lane 0 (the least significant byte)
	// is the first byte on the wire.
	Data uint64

	// Keep is the per-byte validity mask. All lanes are valid on every
	// beat of this protocol, including the padding beat.
	Keep uint8

	// Last is true only on the final beat of a record.
	Last bool
}

// Bytes serializes the beat payload in wire order (lane 0 first).
func (f Frame) Bytes() [FrameSize]byte {
	var b [FrameSize]byte
	binary.LittleEndian.PutUint64(b[:], f.Data)
	return b
}

// AppendBytes appends the beat payload in wire order to dst.
func (f Frame) AppendBytes(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, f.Data)
}
