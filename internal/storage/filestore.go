package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	timestampLayout = "20060102_150405"
)

// FileStore writes each record as one JSON file under a per-tier
// directory. File names start with the observation timestamp so
// lexicographic order is chronological order.
type FileStore struct {
	baseDir string
}

// NewFileStore creates the tier directories under baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	for _, tier := range domain.Tiers() {
		dir := tierDir(baseDir, tier)
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Write(_ context.Context, record domain.ThreadRecord) error {
	if !knownTier(record.Tier) {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownTier, record.Tier)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", record.ID, err)
	}

	name := fmt.Sprintf("%s_%s.json", record.ObservedAt.Format(timestampLayout), record.ThreadID)
	path := filepath.Join(tierDir(s.baseDir, record.Tier), name)

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing record %s: %w", record.ID, err)
	}

	return nil
}

func (s *FileStore) ReadRecent(_ context.Context, tier domain.PriorityTier, limit int) ([]domain.ThreadRecord, error) {
	if !knownTier(tier) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownTier, tier)
	}

	dir := tierDir(s.baseDir, tier)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	records := make([]domain.ThreadRecord, 0, len(names))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var record domain.ThreadRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (s *FileStore) Close() error {
	return nil
}

func tierDir(baseDir string, tier domain.PriorityTier) string {
	return filepath.Join(baseDir, string(tier)+"_priority")
}

func knownTier(tier domain.PriorityTier) bool {
	switch tier {
	case domain.TierHigh, domain.TierMedium, domain.TierLow:
		return true
	default:
		return false
	}
}
