package domain

import "errors"

// Domain errors represent error conditions in the bbobridge domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrQueueFull is returned by a rejected enqueue. The record is dropped
	// and the sticky overflow flag is set; the caller decides whether to retry.
	ErrQueueFull = errors.New("bbobridge: queue full")

	// ErrQueueEmpty is returned by a dequeue that found no committed record.
	ErrQueueEmpty = errors.New("bbobridge: queue empty")

	// ErrMalformedRead is returned when sampled queue pointers describe an
	// occupancy the queue cannot hold, which only happens when the
	// single-writer discipline has been broken.
	ErrMalformedRead = errors.New("bbobridge: malformed queue read")

	// ErrEncoderBusy is returned when a record is offered to the encoder
	// while another record is still in flight.
	ErrEncoderBusy = errors.New("bbobridge: encoder busy")

	// ErrBadPadding is returned when a decoded packet does not carry the
	// expected pad marker in its final word.
	ErrBadPadding = errors.New("bbobridge: bad packet padding")

	// ErrShortPacket is returned when fewer than PacketSize bytes were
	// presented for decoding.
	ErrShortPacket = errors.New("bbobridge: short packet")

	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("bbobridge: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("bbobridge: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("bbobridge: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("bbobridge: invalid configuration")
)
