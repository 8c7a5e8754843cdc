// Package tomlfile persists the seen-set in a TOML file. Writes go through a
// temp file followed by an atomic rename, so a crash mid-write leaves either
// the pre-batch or the post-batch file, never a partial one.
package tomlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

const (
	storagePathKey  = "storage.path"
	defaultDirName  = ".dramaradar"
	defaultFileName = "seen.toml"
	seenFileMode    = 0o600
	seenDirMode     = 0o700
	tempFilePattern = ".seen-*.toml.tmp"
)

type Repository struct {
	seenPath string
	mu       *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SeenRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	seenPath := cfg.GetString(storagePathKey)
	if seenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		seenPath = filepath.Join(home, defaultDirName, defaultFileName)
	}

	absPath, err := filepath.Abs(seenPath)
	if err != nil {
		return nil, fmt.Errorf("resolve seen-set path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &Repository{seenPath: absPath, mu: lockForPath(absPath)}, nil
}

func (r *Repository) Contains(ctx context.Context, id domain.Identity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storeErr("membership check", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return false, err
	}

	for _, entry := range file.Titles {
		if entry.Identity == string(id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeErr("count", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return 0, err
	}
	return len(file.Titles), nil
}

func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// AddAll merges the batch into the file and replaces it atomically.
// Already-present identities are skipped, never an error.
func (r *Repository) AddAll(ctx context.Context, records []domain.SeenRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return storeErr("batch insert", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	present := make(map[string]struct{}, len(file.Titles))
	for _, entry := range file.Titles {
		present[entry.Identity] = struct{}{}
	}

	for _, rec := range records {
		if _, ok := present[string(rec.Identity)]; ok {
			continue
		}
		present[string(rec.Identity)] = struct{}{}
		file.Titles = append(file.Titles, toSchema(rec))
	}

	if err := ctx.Err(); err != nil {
		return storeErr("batch insert", err)
	}

	return r.writeSchema(file)
}

func (r *Repository) List(ctx context.Context) ([]domain.SeenRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr("list", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	records := make([]domain.SeenRecord, 0, len(file.Titles))
	for _, entry := range file.Titles {
		records = append(records, fromSchema(entry))
	}

	// Newest first, matching the sqlite backend.
	sortRecords(records)
	return records, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.seenPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, storeErr("read seen-set file", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, storeErr("decode seen-set file", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, storeErr("validate seen-set file", err)
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.seenPath), seenDirMode); err != nil {
		return storeErr("create storage directory", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return storeErr("encode seen-set file", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.seenPath), tempFilePattern)
	if err != nil {
		return storeErr("create temp seen-set file", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return storeErr("write temp seen-set file", err)
	}

	if err := tempFile.Chmod(seenFileMode); err != nil {
		_ = tempFile.Close()
		return storeErr("chmod temp seen-set file", err)
	}

	if err := tempFile.Close(); err != nil {
		return storeErr("close temp seen-set file", err)
	}

	if err := os.Rename(tempName, r.seenPath); err != nil {
		return storeErr("replace seen-set file", err)
	}

	cleanup = false
	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(rec domain.SeenRecord) seenSchema {
	return seenSchema{
		Identity:    string(rec.Identity),
		Title:       rec.Title,
		Platform:    rec.Platform,
		FirstSeenAt: rec.FirstSeenAt.UTC().Format(time.RFC3339),
	}
}

func fromSchema(entry seenSchema) domain.SeenRecord {
	at, err := time.Parse(time.RFC3339, entry.FirstSeenAt)
	if err != nil {
		at = time.Time{}
	}

	return domain.SeenRecord{
		Identity:    domain.Identity(entry.Identity),
		Title:       entry.Title,
		Platform:    entry.Platform,
		FirstSeenAt: at,
	}
}

func sortRecords(records []domain.SeenRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FirstSeenAt.After(records[j].FirstSeenAt)
	})
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStore, err))
}
