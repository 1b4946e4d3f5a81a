// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/docforge/internal/adapter"
	"github.com/pdiddy/docforge/pkg/types"
)

// sniffLen is how many leading bytes are read for format detection when
// the extension is not conclusive.
const sniffLen = 3072

// FSProvider enumerates documents under a filesystem root. Item IDs are
// slash-separated paths relative to the root.
type FSProvider struct {
	root string

	// Exclude lists directories to leave out of the walk, typically the
	// output root when it nests inside the source root.
	Exclude []string
}

// NewFS creates a provider rooted at root.
func NewFS(root string) *FSProvider {
	return &FSProvider{root: root}
}

func (p *FSProvider) excluded(path string) bool {
	for _, e := range p.Exclude {
		if filepath.Clean(e) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

// List walks the root and returns one item per regular file, in sorted ID
// order. Dotfiles, dot-directories, and excluded directories are skipped.
func (p *FSProvider) List(ctx context.Context) ([]types.SourceItem, error) {
	var items []types.SourceItem

	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if strings.HasPrefix(d.Name(), ".") && path != p.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}

		items = append(items, types.SourceItem{
			ID:      filepath.ToSlash(rel),
			Path:    path,
			Format:  adapter.Detect(path, sniffHead(path)),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing sources under %s: %w", p.root, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Read returns the content of the item with the given ID.
func (p *FSProvider) Read(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(id)))
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", id, err)
	}
	return data, nil
}

// sniffHead reads the first bytes of a file for content sniffing. Read
// errors yield nil: detection then falls back to the extension alone.
func sniffHead(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil
	}
	return head[:n]
}
