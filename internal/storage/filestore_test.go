package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

func testRecord(threadID string, tier domain.PriorityTier, observedAt time.Time) domain.ThreadRecord {
	return domain.ThreadRecord{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Subreddit: "autism",
		Post: domain.Post{
			ID:    threadID,
			Title: "Visual schedule recommendations?",
		},
		Assessment: domain.Assessment{
			TotalScore:   8.5,
			UserType:     domain.UserTypeParent,
			UrgencyLevel: domain.UrgencyMedium,
		},
		Tier:       tier,
		ObservedAt: observedAt,
	}
}

func TestFileStoreWriteAndReadRecent(t *testing.T) {
	ctx := context.Background()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Write(ctx, testRecord("old", domain.TierHigh, base)))
	require.NoError(t, store.Write(ctx, testRecord("newer", domain.TierHigh, base.Add(time.Minute))))
	require.NoError(t, store.Write(ctx, testRecord("medium", domain.TierMedium, base)))

	records, err := store.ReadRecent(ctx, domain.TierHigh, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "newer", records[0].ThreadID, "newest record comes first")
	assert.Equal(t, "old", records[1].ThreadID)
	assert.Equal(t, domain.UserTypeParent, records[0].Assessment.UserType)
}

func TestFileStoreReadRecentHonorsLimit(t *testing.T) {
	ctx := context.Background()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Write(ctx, testRecord(uuid.NewString(), domain.TierLow, base.Add(time.Duration(i)*time.Second))))
	}

	records, err := store.ReadRecent(ctx, domain.TierLow, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestFileStoreEmptyTier(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	records, err := store.ReadRecent(context.Background(), domain.TierMedium, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreRejectsUnknownTier(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	record := testRecord("x", domain.PriorityTier("critical"), time.Now())

	err = store.Write(context.Background(), record)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownTier), "got %v", err)

	_, err = store.ReadRecent(context.Background(), domain.PriorityTier("critical"), 1)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownTier), "got %v", err)
}
