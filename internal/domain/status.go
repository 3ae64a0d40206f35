package domain

import "time"

// Status is a snapshot of the bridge's observable state, persisted between
// runs and exposed to status consumers.
type Status struct {
	// Accepted is the number of records the producer committed to the queue.
	Accepted uint64 `json:"accepted"`

	// Dropped is the number of records rejected because the queue was full.
	Dropped uint64 `json:"dropped"`

	// Transmitted is the number of records fully framed and delivered.
	Transmitted uint64 `json:"transmitted"`

	// Overflow reflects the sticky overflow flag as seen by the consumer.
	Overflow bool `json:"overflow"`

	// LatencyMinNs, LatencyMaxNs, LatencyLastNs summarize the T1->T4
	// round trip over transmitted records.
	LatencyMinNs  uint64 `json:"latency_min_ns"`
	LatencyMaxNs  uint64 `json:"latency_max_ns"`
	LatencyLastNs uint64 `json:"latency_last_ns"`

	// LatencySamples is the number of records with usable timestamps.
	LatencySamples uint64 `json:"latency_samples"`

	// LastSymbol is the symbol of the most recently transmitted record.
	LastSymbol string `json:"last_symbol"`

	// UpdatedAt is when this snapshot was taken.
	UpdatedAt time.Time `json:"updated_at"`
}
