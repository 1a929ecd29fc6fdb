package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/content"
)

// FSSource reads photos from the local filesystem. A directory reference
// expands to its regular, non-hidden files in name order.
type FSSource struct {
	root string
}

// NewFSSource resolves relative references against root. An empty root uses
// the working directory.
func NewFSSource(root string) *FSSource {
	return &FSSource{root: root}
}

func (s *FSSource) path(ref string) string {
	if filepath.IsAbs(ref) || s.root == "" {
		return filepath.Clean(ref)
	}
	return filepath.Join(s.root, ref)
}

func (s *FSSource) Open(ctx context.Context, refs []string) ([]content.File, error) {
	var files []content.File
	for _, ref := range refs {
		p := s.path(ref)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("media: %w", err)
		}

		if !info.IsDir() {
			files = append(files, fsFile(p))
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("media: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, fsFile(filepath.Join(p, name)))
		}
		mediaLogger.Debug().Str("dir", p).Int("files", len(names)).Msg("Expanded photo directory")
	}
	return files, nil
}

func fsFile(path string) content.File {
	return content.File{
		Name: path,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return os.Open(path)
		},
	}
}
