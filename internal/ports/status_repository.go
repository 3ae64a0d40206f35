package ports

import (
	"context"

	"github.com/bft-labs/bbobridge/internal/domain"
)

// StatusRepository persists bridge status snapshots across runs.
// Implementations must write atomically (temp file then rename) so a crash
// never leaves a torn snapshot.
type StatusRepository interface {
	// Load retrieves the last saved status. Returns a zero status and nil
	// error if none exists; an error only for actual read failures.
	Load(ctx context.Context) (domain.Status, error)

	// Save persists the snapshot atomically.
	Save(ctx context.Context, st domain.Status) error
}
