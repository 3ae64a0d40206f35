package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/bbobridge/internal/domain"
	"github.com/bft-labs/bbobridge/internal/encode"
)

// ReplaySource implements ports.RecordSource by reading a capture file of
// consecutive 48-byte packets, as written by a sink or by the original
// stream consumer. Feed timestamps are restamped at read time so the replay
// measures the bridge, not the capture.
type ReplaySource struct {
	f     *os.File
	clock Clock
	buf   [domain.PacketSize]byte
	seq   uint64
}

// NewReplaySource opens the capture file at path.
func NewReplaySource(path string, clock Clock) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return &ReplaySource{f: f, clock: clock}, nil
}

// Next returns the next captured record, io.EOF at end of file.
func (s *ReplaySource) Next(ctx context.Context) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}

	if _, err := io.ReadFull(s.f, s.buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.Record{}, fmt.Errorf("truncated packet %d: %w", s.seq, domain.ErrShortPacket)
		}
		return domain.Record{}, err
	}

	rec, err := encode.ParseRecord(s.buf[:])
	if err != nil {
		return domain.Record{}, fmt.Errorf("packet %d: %w", s.seq, err)
	}
	s.seq++

	rec.T1 = s.clock()
	rec.T2, rec.T3, rec.T4 = 0, 0, 0
	return rec, nil
}

// Close closes the capture file.
func (s *ReplaySource) Close() error {
	return s.f.Close()
}
