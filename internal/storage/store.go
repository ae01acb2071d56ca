// Package storage persists classified thread records. Two backends are
// provided: a flat-file JSON store and PostgreSQL.
package storage

import (
	"context"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

// Store persists thread records grouped by priority tier. Records are
// immutable once written.
type Store interface {
	// Write persists one record under its tier.
	Write(ctx context.Context, record domain.ThreadRecord) error

	// ReadRecent returns up to limit records of a tier, newest first.
	ReadRecent(ctx context.Context, tier domain.PriorityTier, limit int) ([]domain.ThreadRecord, error)

	// Close releases backend resources.
	Close() error
}
