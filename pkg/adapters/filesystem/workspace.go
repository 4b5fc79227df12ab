// Package filesystem implements ports.Workspace over local directories.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aretw0/pacer/pkg/ports"
	"github.com/bmatcuk/doublestar/v4"
)

const excludedDir = "node_modules"

var errLimit = errors.New("limit reached")

type root struct {
	folder ports.Folder
	fsys   fs.FS
}

// Workspace is a read-only view over one or more root directories.
type Workspace struct {
	roots []root
}

// New returns a Workspace over dirs. Each dir must exist and be a directory.
// No dirs yields a workspace with no open folder.
func New(dirs ...string) (*Workspace, error) {
	w := &Workspace{}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("resolve workspace root %q: %w", d, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("open workspace root: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("workspace root %q is not a directory", abs)
		}
		w.roots = append(w.roots, root{
			folder: ports.Folder{Name: filepath.Base(abs), Path: filepath.ToSlash(abs)},
			fsys:   os.DirFS(abs),
		})
	}
	return w, nil
}

// NewFS returns a single-root Workspace over fsys, reported under name.
func NewFS(name string, fsys fs.FS) *Workspace {
	return &Workspace{roots: []root{{folder: ports.Folder{Name: name, Path: "/" + name}, fsys: fsys}}}
}

// Folders lists the workspace roots.
func (w *Workspace) Folders(ctx context.Context) ([]ports.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]ports.Folder, len(w.roots))
	for i, r := range w.roots {
		out[i] = r.folder
	}
	return out, nil
}

// Pattern returns the glob FindFiles uses for extensions.
func Pattern(extensions []string) string {
	if len(extensions) == 0 {
		return "**/*"
	}
	exts := make([]string, len(extensions))
	for i, e := range extensions {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	if len(exts) == 1 {
		return "**/*." + exts[0]
	}
	return "**/*.{" + strings.Join(exts, ",") + "}"
}

// FindFiles returns slash-separated paths matching opts. With several roots
// every path is prefixed by its folder name.
func (w *Workspace) FindFiles(ctx context.Context, opts ports.FindOptions) ([]string, error) {
	pattern := Pattern(opts.Extensions)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}

	var out []string
	for _, r := range w.roots {
		err := walk(ctx, r.fsys, skipDir(opts.IncludeHidden), func(p string) error {
			ok, err := doublestar.Match(pattern, p)
			if err != nil || !ok {
				return err
			}
			if len(w.roots) > 1 {
				p = path.Join(r.folder.Name, p)
			}
			out = append(out, p)
			if opts.Limit > 0 && len(out) >= opts.Limit {
				return errLimit
			}
			return nil
		})
		if errors.Is(err, errLimit) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("find files in %s: %w", r.folder.Name, err)
		}
	}
	return out, nil
}

// Exists reports whether a file named name exists in any root, outside
// node_modules.
func (w *Workspace) Exists(ctx context.Context, name string) (bool, error) {
	found := false
	for _, r := range w.roots {
		err := walk(ctx, r.fsys, skipNodeModules, func(p string) error {
			if path.Base(p) == name {
				found = true
				return errLimit
			}
			return nil
		})
		if found {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("probe %s in %s: %w", name, r.folder.Name, err)
		}
	}
	return false, nil
}

func skipNodeModules(name string) bool { return name == excludedDir }

// skipDir excludes node_modules and dot-directories unless includeHidden.
func skipDir(includeHidden bool) func(string) bool {
	if includeHidden {
		return func(string) bool { return false }
	}
	return func(name string) bool {
		return name == excludedDir || strings.HasPrefix(name, ".")
	}
}

// walk visits every regular file of fsys outside the directories skip rejects.
func walk(ctx context.Context, fsys fs.FS, skip func(name string) bool, fn func(p string) error) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skip(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		return fn(p)
	})
}
