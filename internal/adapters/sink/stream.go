// Package sink implements the downstream side of the framed stream: a
// byte-stream sink over a file, character device, or TCP connection. The
// blocking Write of the underlying stream is what backpressure looks like
// on the consumer side of the handshake.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// StreamSink implements ports.FrameSink over an io.WriteCloser. Beats are
// buffered and flushed at each end-of-record marker, so partial records are
// never exposed to the stream on a clean shutdown.
type StreamSink struct {
	wc io.WriteCloser
	bw *bufio.Writer

	// pending is true while the buffer holds beats of an unfinished record.
	pending bool
}

// NewStreamSink wraps wc.
func NewStreamSink(wc io.WriteCloser) *StreamSink {
	return &StreamSink{
		wc: wc,
		bw: bufio.NewWriterSize(wc, domain.PacketSize*8),
	}
}

// OpenFile creates a sink writing to the file or device node at path.
func OpenFile(path string) (*StreamSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open sink: %w", err)
	}
	return NewStreamSink(f), nil
}

// Dial creates a sink streaming to a TCP endpoint.
func Dial(addr string, timeout time.Duration) (*StreamSink, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial sink: %w", err)
	}
	return NewStreamSink(conn), nil
}

// Write accepts one beat. It blocks while the underlying stream exerts
// backpressure; a nil return means the beat was accepted.
func (s *StreamSink) Write(ctx context.Context, f domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := f.Bytes()
	if _, err := s.bw.Write(b[:]); err != nil {
		s.discard()
		return err
	}
	if f.Last {
		if err := s.bw.Flush(); err != nil {
			s.discard()
			return err
		}
		s.pending = false
		return nil
	}
	s.pending = true
	return nil
}

// discard drops buffered beats and clears the writer's sticky error state, so
// a later Write can reach a recovered stream. The receiver resynchronizes a
// clipped record on the end-of-packet marker.
func (s *StreamSink) discard() {
	s.bw.Reset(s.wc)
	s.pending = false
}

// Close flushes any complete buffered record and closes the stream. Beats of
// an unfinished record are discarded rather than written out.
func (s *StreamSink) Close() error {
	var flushErr error
	if s.pending {
		s.discard()
	} else {
		flushErr = s.bw.Flush()
	}
	closeErr := s.wc.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
