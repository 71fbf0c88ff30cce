package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// Finder locates a workspace root by walking upward until a directory holds
// one of Markers.
type Finder struct {
	Markers []string
}

func NewFinder() *Finder {
	return &Finder{Markers: []string{"biblioteca.yaml", ".biblioteca"}}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if f.hasMarker(cur) {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// FindRootOr returns fallback when no workspace encloses startDir.
func (f *Finder) FindRootOr(startDir, fallback string) string {
	root, err := f.FindRoot(startDir)
	if err != nil {
		return fallback
	}
	return root
}

func (f *Finder) hasMarker(dir string) bool {
	for _, m := range f.Markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}
