package utils

import (
	"os"
	"sync"
	"time"
)

// fileEntry is one cached value together with the file metadata it was
// read under.
type fileEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache holds values keyed by file path and invalidates them when
// the file's modification time or size changes. The file reader keeps
// parsed ASTs and raw source here so a file is read from disk at most
// once per run. Safe for concurrent use; the driver parses packages in
// parallel.
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]fileEntry[V]
}

// NewFileCache creates an empty file cache.
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		entries: make(map[string]fileEntry[V]),
	}
}

// Get returns the cached value for path if the file is unchanged since
// it was stored. A modified or unreadable file drops the entry.
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if stat, err := os.Stat(path); err == nil {
		if stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
			return entry.value, true
		}
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()

	return zero, false
}

// Put stores the value for path together with the file's current
// metadata. When the file cannot be stat'd the value is simply not
// cached; the caller has already read it and loses nothing.
func (c *FileCache[V]) Put(path string, value V) {
	stat, err := os.Stat(path)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = fileEntry[V]{
		value:   value,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	}
}
