// Package resolve implements the module search order used by the import
// resolver (component C3): given a dotted module path, find the source
// file (or directory of source files) it names on disk.
//
// Unlike the implementation this is modelled on, the search-path list and
// the "already imported" bookkeeping are values owned by the caller (the
// AST builder), not package-level state — see DESIGN.md for the rationale.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ehlit/ehlitc/internal/normalize"
)

// SourceExt is the Ehlit module file extension.
const SourceExt = ".eh"

// Paths is the ordered list of directories searched for an import.
type Paths struct {
	entries []string
}

// NewPaths builds the standard three-entry search order:
// [dirname(source), current working directory, dirname(outputImportFile)].
func NewPaths(source, outputImportFile string) *Paths {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Paths{entries: []string{
		filepath.Dir(source),
		cwd,
		filepath.Dir(outputImportFile),
	}}
}

// List returns the search order, for diagnostics and testing.
func (p *Paths) List() []string {
	return append([]string(nil), p.entries...)
}

// Resolve locates the file or directory named by the dotted path
// components (e.g. ["foo", "bar"] for `import foo.bar`). If the first
// matching entry is a directory, isDir is true and resolved names that
// directory without the .eh suffix.
func (p *Paths) Resolve(components []string) (resolved string, isDir bool, found bool) {
	lib := filepath.Join(components...)
	for _, base := range p.entries {
		full := filepath.Join(base, lib)
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			return full, true, true
		}
		withExt := full + SourceExt
		if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
			return withExt, false, true
		}
	}
	return "", false, false
}

// ListDir returns the path (dir joined with the entry name) of every entry directly inside dir,
// used to recursively import a directory.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// IsDir reports whether path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadSource reads and normalizes a module's source bytes.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file %s: %w", path, err)
	}
	return normalize.Source(data), nil
}
