package encode

import (
	"encoding/binary"
	"math/bits"

	"github.com/bft-labs/bbobridge/internal/domain"
)

type state uint8

const (
	stateIdle state = iota
	stateEmit1
	stateEmit2
	stateEmit3
	stateEmit4
	stateEmit5
	stateEmit6
)

// Encoder turns one record at a time into the 6-beat framed stream. It runs
// entirely in the consumer domain and is not safe for concurrent use.
//
// The caller drives the ready/valid handshake: Frame returns the current
// beat while one is valid, and Advance acknowledges that the sink accepted
// it. A presented beat is held unchanged until acknowledged; once a record
// is loaded it is always emitted in full. There is no error path past Load.
type Encoder struct {
	state       state
	rec         domain.Record
	frame       domain.Frame
	transmitted uint64
}

// New returns an idle encoder.
func New() *Encoder {
	return &Encoder{}
}

// Idle reports whether the encoder can accept a record.
func (e *Encoder) Idle() bool {
	return e.state == stateIdle
}

// Load latches rec verbatim and moves to the first emit state. Returns
// domain.ErrEncoderBusy while a previous record is still in flight,
// establishing at-most-one in-flight record.
func (e *Encoder) Load(rec domain.Record) error {
	if e.state != stateIdle {
		return domain.ErrEncoderBusy
	}
	e.rec = rec
	e.state = stateEmit1
	e.frame = e.beat(1)
	return nil
}

// Frame returns the current beat and whether it is valid. The same beat is
// returned until Advance is called.
func (e *Encoder) Frame() (domain.Frame, bool) {
	if e.state == stateIdle {
		return domain.Frame{}, false
	}
	return e.frame, true
}

// Advance records that the sink accepted the current beat. From the final
// beat it returns to idle and increments the transmitted-record counter;
// otherwise it moves to the next beat. A call while idle does nothing.
func (e *Encoder) Advance() {
	switch e.state {
	case stateIdle:
	case stateEmit6:
		e.state = stateIdle
		e.frame = domain.Frame{}
		e.transmitted++
	default:
		e.state++
		e.frame = e.beat(int(e.state - stateIdle))
	}
}

// Transmitted returns the number of fully emitted records.
func (e *Encoder) Transmitted() uint64 {
	return e.transmitted
}

// Reset aborts any in-flight record and returns to idle. The transmitted
// counter is preserved; a partially emitted record is simply abandoned.
func (e *Encoder) Reset() {
	e.state = stateIdle
	e.frame = domain.Frame{}
}

// beat builds the frame for beat n of the latched record. Each beat packs
// two adjacent 4-byte fields with the first-produced field in the low-order
// half, so earlier bytes land at lower wire addresses. The symbol word is
// byte-reversed: read as one big-endian quantity its byte 0 must still land
// in the lowest lane, where a host consuming it as ASCII expects it.
func (e *Encoder) beat(n int) domain.Frame {
	r := e.rec
	var data uint64
	switch n {
	case 1:
		data = bits.ReverseBytes64(binary.BigEndian.Uint64(r.Symbol[:]))
	case 2:
		data = pack(r.BidPrice, r.BidSize)
	case 3:
		data = pack(r.AskPrice, r.AskSize)
	case 4:
		data = pack(r.Spread, r.T1)
	case 5:
		data = pack(r.T2, r.T3)
	case 6:
		data = pack(r.T4, domain.PadMarker)
	}
	return domain.Frame{
		Data: data,
		Keep: domain.KeepAll,
		Last: n == domain.FramesPerRecord,
	}
}

// pack places lo in the low-order half of the beat and hi in the high-order
// half.
func pack(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// Packet runs a record through a throwaway encoder and returns its full
// 48-byte wire image. Convenience for tests, replay files and the archive.
func Packet(rec domain.Record) [domain.PacketSize]byte {
	var e Encoder
	_ = e.Load(rec)

	var out [domain.PacketSize]byte
	for i := 0; ; i++ {
		f, ok := e.Frame()
		if !ok {
			break
		}
		b := f.Bytes()
		copy(out[i*domain.FrameSize:], b[:])
		e.Advance()
	}
	return out
}
