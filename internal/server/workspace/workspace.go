// Package workspace manages per-request scratch directories for staged
// uploads and transcoder output.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/filex"
	"github.com/google/uuid"
)

const dirPrefix = "job-"

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// Manager creates scratch directories under a single root.
type Manager struct {
	root string
	now  func() time.Time
}

func NewManager(root string) (*Manager, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	return &Manager{root: abs, now: time.Now}, nil
}

func (m *Manager) Root() string { return m.root }

// SanitizeExt returns ext if it is a short alphanumeric extension, lowercased,
// and "" otherwise.
func SanitizeExt(ext string) string {
	if !extPattern.MatchString(ext) {
		return ""
	}
	return strings.ToLower(ext)
}

// Stage writes data into a fresh scratch directory. The directory name never
// depends on client input, so concurrent uploads of the same filename cannot
// collide.
func (m *Manager) Stage(data []byte, ext string) (*Handle, error) {
	name := fmt.Sprintf("%s%d-%s", dirPrefix, m.now().UnixNano(), uuid.NewString())
	dir := filepath.Join(m.root, name)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	h := &Handle{dir: dir, input: filepath.Join(dir, "input"+SanitizeExt(ext))}
	if err := os.WriteFile(h.input, data, 0o600); err != nil {
		_ = h.Release()
		return nil, fmt.Errorf("write staged input: %w", err)
	}
	return h, nil
}

// Sweep removes scratch directories not modified within olderThan and
// returns how many it removed.
func (m *Manager) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, fmt.Errorf("read workspace root: %w", err)
	}

	cutoff := m.now().Add(-olderThan)
	removed := 0
	var errs []error
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.root, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Handle is one staged upload. Release is safe to call any number of times.
type Handle struct {
	dir   string
	input string
	seq   atomic.Int64

	once       sync.Once
	releaseErr error
}

func (h *Handle) Dir() string { return h.dir }

func (h *Handle) InputPath() string { return h.input }

// OutputPath returns a new path inside the scratch dir on every call.
func (h *Handle) OutputPath(ext string) string {
	n := h.seq.Add(1)
	return filepath.Join(h.dir, fmt.Sprintf("output-%d%s", n, SanitizeExt(ext)))
}

func (h *Handle) Release() error {
	h.once.Do(func() {
		h.releaseErr = os.RemoveAll(h.dir)
	})
	return h.releaseErr
}
