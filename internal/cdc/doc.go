// Package cdc implements the clock-domain-crossing queue: a 16-slot (by
// default) single-producer single-consumer ring whose only synchronization
// is a Gray-coded, two-stage-resampled pointer export per side, plus the
// matching FlagCrossing primitive for sticky booleans.
//
// The protocol guarantees that a consumer step never reads a slot whose
// write has not been published through the exported write pointer, at the
// cost of fullness and emptiness being reported conservatively late (up to
// two steps of the observing domain). There are no locks and no blocking
// operations anywhere in this package.
package cdc
