package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// ParseRecord reverses the frame transforms and reconstructs the record from
// one 48-byte wire packet. The pad marker is verified; a packet whose final
// word is not the marker indicates a desynchronized or corrupted stream.
func ParseRecord(b []byte) (domain.Record, error) {
	if len(b) < domain.PacketSize {
		return domain.Record{}, fmt.Errorf("%w: got %d bytes", domain.ErrShortPacket, len(b))
	}

	if pad := binary.LittleEndian.Uint32(b[44:48]); pad != domain.PadMarker {
		return domain.Record{}, fmt.Errorf("%w: got %#08x", domain.ErrBadPadding, pad)
	}

	var rec domain.Record
	copy(rec.Symbol[:], b[0:8])
	rec.BidPrice = binary.LittleEndian.Uint32(b[8:12])
	rec.BidSize = binary.LittleEndian.Uint32(b[12:16])
	rec.AskPrice = binary.LittleEndian.Uint32(b[16:20])
	rec.AskSize = binary.LittleEndian.Uint32(b[20:24])
	rec.Spread = binary.LittleEndian.Uint32(b[24:28])
	rec.T1 = binary.LittleEndian.Uint32(b[28:32])
	rec.T2 = binary.LittleEndian.Uint32(b[32:36])
	rec.T3 = binary.LittleEndian.Uint32(b[36:40])
	rec.T4 = binary.LittleEndian.Uint32(b[40:44])
	return rec, nil
}
