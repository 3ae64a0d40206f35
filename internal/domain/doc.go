// Package domain contains the core entities of bbobridge: the fixed-width
// BBO record, the 8-byte stream frame, the status snapshot, and the sentinel
// errors shared across layers.
//
// Entities here have no dependencies on infrastructure. The 48-byte packet
// geometry declared in record.go is a wire contract; every other package
// derives its sizes from these constants.
package domain
