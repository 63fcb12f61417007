package snapshot

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// Load reads and builds the snapshot at path. The codec is chosen by
// extension. An empty document path defaults to path.
func Load(fset *source.FileSet, path string) (*Snapshot, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(fset)
}

// ReadDocument decodes the document at path without building it. The
// document is not modified by Build and may be built again.
func ReadDocument(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	doc, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Path == "" {
		doc.Path = path
	}
	return doc, nil
}

// Save writes tree and model to path, replacing the file atomically.
func Save(path string, tree *syntax.Tree, model semantic.Model) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".convlint-*")
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Encode(w, format, FromTree(tree, model)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	// атомарная замена
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Discover expands args into snapshot files. Directories are walked
// recursively, skipping hidden ones; files are taken as given. The result is
// sorted and free of duplicates.
func Discover(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSnapshot(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
