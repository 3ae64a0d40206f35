package domain

// Wire geometry. The 48-byte packet layout is a binary contract shared with
// downstream consumers and must not change.
const (
	// SymbolLen is the length of the ASCII symbol field in bytes.
	SymbolLen = 8

	// RecordSize is the payload size of a record in bytes (no padding).
	RecordSize = 44

	// PacketSize is the on-wire size of one record: payload plus padding.
	PacketSize = 48

	// FrameSize is the width of one stream beat in bytes.
	FrameSize = 8

	// FramesPerRecord is the number of beats needed to carry one packet.
	FramesPerRecord = PacketSize / FrameSize

	// PadMarker fills bytes 44-47 of every packet.
	PadMarker = 0xDEADBEEF
)

// Record is one best-bid-offer market update. It is immutable once enqueued:
// the queue copies it by value and the encoder latches it verbatim.
type Record struct {
	// Symbol is the instrument identifier, ASCII, null-padded.
	Symbol [SymbolLen]byte

	// BidPrice and AskPrice are prices in exchange ticks.
	BidPrice uint32
	AskPrice uint32

	// BidSize and AskSize are displayed quantities at the touch.
	BidSize uint32
	AskSize uint32

	// Spread is AskPrice - BidPrice, derived upstream.
	Spread uint32

	// T1..T4 are stage-entry timestamps in clock cycles:
	// T1 feed parse, T2 queue write, T3 queue read, T4 transmit start.
	T1 uint32
	T2 uint32
	T3 uint32
	T4 uint32
}

// NewSymbol packs s into a null-padded symbol field, truncating at SymbolLen.
func NewSymbol(s string) [SymbolLen]byte {
	var sym [SymbolLen]byte
	copy(sym[:], s)
	return sym
}

// SymbolString returns the symbol with trailing nulls stripped.
func (r Record) SymbolString() string {
	n := len(r.Symbol)
	for n > 0 && r.Symbol[n-1] == 0 {
		n--
	}
	return string(r.Symbol[:n])
}

// RoundTrip returns the T1->T4 latency in cycles. Returns 0 when the
// timestamps are absent or inconsistent.
func (r Record) RoundTrip() uint32 {
	if r.T1 == 0 || r.T4 <= r.T1 {
		return 0
	}
	return r.T4 - r.T1
}
