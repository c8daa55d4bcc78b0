package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/filex"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
)

// JSONFileRepository keeps the whole collection in one JSON array on disk.
// Every write is a read-modify-write under mu, and the file is replaced via
// temp file + rename, so it never holds a partial document.
type JSONFileRepository struct {
	path string
	mu   sync.RWMutex
}

var _ Repository = (*JSONFileRepository)(nil)

// NewJSONFileRepository prepares the parent directory of path. The file itself
// is created on first write; a missing file reads as an empty collection.
func NewJSONFileRepository(path string) (*JSONFileRepository, error) {
	dir, err := filex.EnsureDir(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("metadata dir: %w", err)
	}
	return &JSONFileRepository{path: filepath.Join(dir, filepath.Base(path))}, nil
}

func (r *JSONFileRepository) load() ([]*models.Video, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*models.Video{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	if len(b) == 0 {
		return []*models.Video{}, nil
	}

	var items []*models.Video
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return items, nil
}

func (r *JSONFileRepository) store(items []*models.Video) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, b, 0o640); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (r *JSONFileRepository) Put(ctx context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == v.ID {
			return common.ErrDuplicateID
		}
	}

	cp := *v
	return r.store(append(items, &cp))
}

func (r *JSONFileRepository) Get(ctx context.Context, id string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *JSONFileRepository) List(ctx context.Context) ([]*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.load()
}

func (r *JSONFileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == id {
			return r.store(append(items[:i], items[i+1:]...))
		}
	}
	return common.ErrorNotFound
}
