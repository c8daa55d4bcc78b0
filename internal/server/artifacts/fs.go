package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/filex"
)

// FSStore keeps artifacts in a local directory that the HTTP server exposes
// under prefix.
type FSStore struct {
	dir    string
	prefix string
}

var _ Store = (*FSStore)(nil)

func NewFSStore(dir, prefix string) (*FSStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &FSStore{dir: abs, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

// Dir is the directory served as static content.
func (s *FSStore) Dir() string { return s.dir }

// Prefix is the URL prefix stored paths start with.
func (s *FSStore) Prefix() string { return s.prefix }

func (s *FSStore) Publish(ctx context.Context, srcPath, name, contentType string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	if err := filex.MoveFile(srcPath, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("move artifact: %w", err)
	}
	return path.Join(s.prefix, name), nil
}

func (s *FSStore) Remove(ctx context.Context, storedPath string) error {
	name, ok := s.nameOf(storedPath)
	if !ok {
		return common.ErrorNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

func (s *FSStore) Manages(storedPath string) bool {
	_, ok := s.nameOf(storedPath)
	return ok
}

func (s *FSStore) nameOf(storedPath string) (string, bool) {
	name, ok := strings.CutPrefix(storedPath, s.prefix+"/")
	if !ok || !validName(name) {
		return "", false
	}
	return name, true
}

// validName accepts a single path element only.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
