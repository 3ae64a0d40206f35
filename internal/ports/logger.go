package ports

import "github.com/bft-labs/bbobridge/pkg/log"

// Logger is the structured logging port, shared with pkg/log so adapters and
// embedders use one Field vocabulary.
type Logger = log.Logger

// Field is a structured logging key-value pair.
type Field = log.Field

// Field constructors, re-exported for the internal packages.
var (
	String   = log.String
	Int      = log.Int
	Uint32   = log.Uint32
	Uint64   = log.Uint64
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
