// Package encode implements the frame encoder state machine that serializes
// one BBO record into six 8-byte stream beats under a ready/valid handshake,
// and the inverse parser used by receivers. The 48-byte packet image the two
// produce and consume is a bit-exact wire contract.
package encode
