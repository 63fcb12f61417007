package snapshot

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"convlint/internal/source"
)

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

// Cache keeps decoded documents between passes. An entry is keyed by path,
// size and modification time, so a changed file is decoded again.
type Cache struct {
	docs *lru.LRU[cacheKey, *Document]
	// OnLookup, when set, is told about every lookup.
	OnLookup func(hit bool)
}

// NewCache holds at most size documents; size below 1 means 1.
func NewCache(size int) *Cache {
	return &Cache{docs: lru.NewLRU[cacheKey, *Document](max(size, 1), nil, 0)}
}

// Load is Load with the decoding step cached. A nil cache decodes every time.
func (c *Cache) Load(fset *source.FileSet, path string) (*Snapshot, error) {
	if c == nil {
		return Load(fset, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime()}
	doc, hit := c.docs.Get(key)
	if c.OnLookup != nil {
		c.OnLookup(hit)
	}
	if !hit {
		if doc, err = ReadDocument(path); err != nil {
			return nil, err
		}
		c.docs.Add(key, doc)
	}
	return doc.Build(fset)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.docs.Len()
}
