package encode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bft-labs/bbobridge/internal/domain"
)

func testRecord() domain.Record {
	return domain.Record{
		Symbol:   domain.NewSymbol("TESTAAPL"),
		BidPrice: 100,
		BidSize:  10,
		AskPrice: 101,
		AskSize:  12,
		Spread:   1,
		T1:       1000,
		T2:       1001,
		T3:       1002,
		T4:       1003,
	}
}

func TestPacket_GoldenWireImage(t *testing.T) {
	want := []byte{
		// symbol, ASCII order
		'T', 'E', 'S', 'T', 'A', 'A', 'P', 'L',
		// bid price 100, bid size 10
		0x64, 0x00, 0x00, 0x00, 0x0a, 0x00, 0x00, 0x00,
		// ask price 101, ask size 12
		0x65, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x00, 0x00,
		// spread 1, t1 1000
		0x01, 0x00, 0x00, 0x00, 0xe8, 0x03, 0x00, 0x00,
		// t2 1001, t3 1002
		0xe9, 0x03, 0x00, 0x00, 0xea, 0x03, 0x00, 0x00,
		// t4 1003, pad marker
		0xeb, 0x03, 0x00, 0x00, 0xef, 0xbe, 0xad, 0xde,
	}

	got := Packet(testRecord())
	if !bytes.Equal(got[:], want) {
		t.Fatalf("wire image mismatch\n got %x\nwant %x", got, want)
	}
}

func TestEncoder_SixBeatsEndMarkerOnLast(t *testing.T) {
	e := New()
	if e.Transmitted() != 0 {
		t.Fatalf("new encoder transmitted = %d", e.Transmitted())
	}
	if err := e.Load(testRecord()); err != nil {
		t.Fatal(err)
	}

	beats := 0
	for {
		f, ok := e.Frame()
		if !ok {
			break
		}
		beats++
		if f.Keep != domain.KeepAll {
			t.Errorf("beat %d: keep = %#x, want all lanes valid", beats, f.Keep)
		}
		if wantLast := beats == domain.FramesPerRecord; f.Last != wantLast {
			t.Errorf("beat %d: last = %v, want %v", beats, f.Last, wantLast)
		}
		e.Advance()
	}

	if beats != domain.FramesPerRecord {
		t.Errorf("emitted %d beats, want %d", beats, domain.FramesPerRecord)
	}
	if e.Transmitted() != 1 {
		t.Errorf("transmitted = %d after one record, want 1", e.Transmitted())
	}
	if !e.Idle() {
		t.Error("encoder not idle after final beat accepted")
	}
}

func TestEncoder_HoldsBeatUntilAccepted(t *testing.T) {
	e := New()
	if err := e.Load(testRecord()); err != nil {
		t.Fatal(err)
	}

	f1, ok1 := e.Frame()
	f2, ok2 := e.Frame()
	if !ok1 || !ok2 || f1 != f2 {
		t.Error("beat changed between Frame calls without Advance")
	}

	if err := e.Load(testRecord()); !errors.Is(err, domain.ErrEncoderBusy) {
		t.Errorf("Load while busy: err = %v, want ErrEncoderBusy", err)
	}
}

func TestEncoder_AdvanceWhileIdleIsNoop(t *testing.T) {
	e := New()
	e.Advance()
	if !e.Idle() || e.Transmitted() != 0 {
		t.Error("Advance while idle changed encoder state")
	}
}

func TestEncoder_ResetAbandonsInflightRecord(t *testing.T) {
	e := New()
	if err := e.Load(testRecord()); err != nil {
		t.Fatal(err)
	}
	e.Advance()
	e.Advance()

	e.Reset()
	if !e.Idle() {
		t.Error("not idle after Reset")
	}
	if e.Transmitted() != 0 {
		t.Errorf("abandoned record counted as transmitted: %d", e.Transmitted())
	}
	if err := e.Load(testRecord()); err != nil {
		t.Errorf("Load after Reset: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	recs := []domain.Record{
		testRecord(),
		{Symbol: domain.NewSymbol("A")}, // null-heavy symbol, zero fields
		{
			Symbol:   domain.NewSymbol("MSFT"),
			BidPrice: 0xFFFFFFFF,
			BidSize:  1,
			AskPrice: 0x80000000,
			AskSize:  0x7FFFFFFF,
			Spread:   42,
			T1:       1,
			T2:       2,
			T3:       3,
			T4:       4,
		},
	}

	for i, rec := range recs {
		pkt := Packet(rec)
		got, err := ParseRecord(pkt[:])
		if err != nil {
			t.Fatalf("record %d: ParseRecord: %v", i, err)
		}
		if got != rec {
			t.Errorf("record %d: round trip mismatch\n got %+v\nwant %+v", i, got, rec)
		}
	}
}

func TestParseRecord_Errors(t *testing.T) {
	if _, err := ParseRecord(make([]byte, 20)); !errors.Is(err, domain.ErrShortPacket) {
		t.Errorf("short input: err = %v, want ErrShortPacket", err)
	}

	pkt := Packet(testRecord())
	pkt[45] ^= 0xFF
	if _, err := ParseRecord(pkt[:]); !errors.Is(err, domain.ErrBadPadding) {
		t.Errorf("corrupted pad: err = %v, want ErrBadPadding", err)
	}
}
