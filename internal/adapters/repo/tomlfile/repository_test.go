package tomlfile

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dramaradar/internal/domain"
)

func newTestRepo(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("storage.path", path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func record(title string, at time.Time) domain.SeenRecord {
	return domain.NewSeenRecord(domain.RankedItem{Title: title, Rank: 1, Platform: "芒果TV独播"}, at)
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t, filepath.Join(t.TempDir(), "seen.toml"))
	now := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)

	empty, err := repo.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, repo.AddAll(context.Background(), []domain.SeenRecord{
		record("开端", now),
		record("风起陇西", now.Add(time.Minute)),
	}))

	ok, err := repo.Contains(context.Background(), domain.NormalizeIdentity("开端"))
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "风起陇西", records[0].Title)
	assert.Equal(t, "开端", records[1].Title)
	assert.Equal(t, "芒果TV独播", records[1].Platform)
}

func TestRepositoryAddAllIdempotent(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t, filepath.Join(t.TempDir(), "seen.toml"))
	now := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AddAll(context.Background(), []domain.SeenRecord{record("开端", now)}))
	require.NoError(t, repo.AddAll(context.Background(), []domain.SeenRecord{record("开端", now.Add(24*time.Hour))}))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].FirstSeenAt.Equal(now))
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t, filepath.Join(t.TempDir(), "missing", "seen.toml"))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	empty, err := repo.IsEmpty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestRepositoryMalformedFileReturnsStoreError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.toml")
	require.NoError(t, os.WriteFile(path, []byte("titles = ["), 0o600))

	repo := newTestRepo(t, path)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorContains(t, err, "decode seen-set file")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 999",
		"",
		"titles = []",
		"",
	}, "\n")), 0o600))

	repo := newTestRepo(t, path)

	_, err := repo.Count(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported seen-set schema version")
}

func TestRepositoryWriteIsAtomicReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seen.toml")
	repo := newTestRepo(t, path)

	require.NoError(t, repo.AddAll(context.Background(), []domain.SeenRecord{record("开端", time.Now())}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not survive the rename")
	assert.Equal(t, "seen.toml", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestRepositoryCanceledContextLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t, filepath.Join(t.TempDir(), "seen.toml"))
	now := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddAll(context.Background(), []domain.SeenRecord{record("开端", now)}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.AddAll(ctx, []domain.SeenRecord{record("新剧", now)})
	require.ErrorIs(t, err, domain.ErrStore)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepositoryConcurrentAddAcrossInstancesPreservesAll(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.toml")

	newRepo := func() *Repository {
		config := viper.New()
		config.Set("storage.path", path)
		repo, err := NewRepository(config)
		require.NoError(t, err)
		return repo
	}

	repoA := newRepo()
	repoB := newRepo()

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.AddAll(context.Background(), []domain.SeenRecord{
				record(prefix+strconv.Itoa(i), time.Now()),
			})
		}
	}

	go write(repoA, "a-")
	go write(repoB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	count, err := repoA.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, perRepoWrites*2, count)
}
