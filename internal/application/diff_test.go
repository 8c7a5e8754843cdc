package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dramaradar/internal/domain"
)

func TestDiffPreservesObservedOrder(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo("丙")
	observed := ranking("甲", "丙", "乙", "丁")

	fresh, err := Diff(context.Background(), observed, repo, false)
	require.NoError(t, err)

	titles := make([]string, 0, len(fresh))
	for _, item := range fresh {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"甲", "乙", "丁"}, titles)
}

func TestDiffDeduplicatesWithinSingleRun(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo("旧剧")
	observed := ranking("A", "B", "A")

	fresh, err := Diff(context.Background(), observed, repo, false)
	require.NoError(t, err)

	require.Len(t, fresh, 2)
	assert.Equal(t, "A", fresh[0].Title)
	assert.Equal(t, "B", fresh[1].Title)
}

func TestDiffTreatsFormattingVariantsAsOneIdentity(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo("开端")
	observed := ranking(" 开端 ", "新剧")

	fresh, err := Diff(context.Background(), observed, repo, false)
	require.NoError(t, err)

	require.Len(t, fresh, 1)
	assert.Equal(t, "新剧", fresh[0].Title)
}

func TestDiffBaselineForcesEmpty(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	fresh, err := Diff(context.Background(), ranking("甲", "乙"), repo, true)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestDiffIdempotentAgainstUnchangedStore(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo("甲")
	observed := ranking("甲", "乙")

	first, err := Diff(context.Background(), observed, repo, false)
	require.NoError(t, err)
	second, err := Diff(context.Background(), observed, repo, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUniqueRecordsKeepsFirstOccurrenceMetadata(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)
	observed := []domain.RankedItem{
		{Title: "开端", Rank: 1, Platform: "腾讯视频独播"},
		{Title: " 开端", Rank: 5, Platform: "芒果TV独播"},
		{Title: "风起陇西", Rank: 2},
	}

	records := uniqueRecords(observed, at)
	require.Len(t, records, 2)
	assert.Equal(t, "腾讯视频独播", records[0].Platform)
	assert.Equal(t, domain.Identity("风起陇西"), records[1].Identity)
}
