// Package vfs provides the sinks generated files are written to: the host
// file system, or an in-memory store that can later be flushed to it.
package vfs

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid path")
)

// Sink receives generated files.
type Sink interface {
	MkdirAll(dir string) error
	WriteFile(path string, data []byte) error
}

// DiskSink writes straight to the host file system.
type DiskSink struct{}

func (DiskSink) MkdirAll(dir string) error {
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "creating %s", dir)
}

func (DiskSink) WriteFile(path string, data []byte) error {
	if err := checkPath(path); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing %s", path)
}

type FileEntry struct {
	Data     []byte
	Created  time.Time
	Modified time.Time
}

// MemorySink keeps files in memory. Writing identical content leaves a file
// clean, so Flush only touches files whose content changed.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string]*FileEntry
	dirs  map[string]bool
	dirty map[string]bool
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		files: make(map[string]*FileEntry),
		dirs:  make(map[string]bool),
		dirty: make(map[string]bool),
	}
}

func checkPath(path string) error {
	if path == "" || filepath.Base(path) == "." || filepath.Base(path) == string(filepath.Separator) {
		return errors.Wrapf(ErrInvalidPath, "%q", path)
	}
	return nil
}

func (m *MemorySink) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[filepath.Clean(dir)] = true
	return nil
}

// WriteFile stores a private copy of data.
func (m *MemorySink) WriteFile(path string, data []byte) error {
	if err := checkPath(path); err != nil {
		return err
	}
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.files[path]
	if ok && bytes.Equal(entry.Data, data) {
		return nil
	}
	if !ok {
		entry = &FileEntry{Created: now}
		m.files[path] = entry
	}
	entry.Data = append([]byte(nil), data...)
	entry.Modified = now
	m.dirty[path] = true
	return nil
}

// Read returns the content stored at path.
func (m *MemorySink) Read(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
	}
	return entry.Data, nil
}

// Size returns the size of a file in bytes.
func (m *MemorySink) Size(path string) (int, error) {
	data, err := m.Read(path)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Delete forgets a file.
func (m *MemorySink) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := m.files[path]; !ok {
		return errors.Wrapf(ErrFileNotFound, "%s", path)
	}
	delete(m.files, path)
	delete(m.dirty, path)
	return nil
}

// List returns every stored path, sorted.
func (m *MemorySink) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.files))
	for k := range m.files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dirty reports whether any file changed since the last Flush.
func (m *MemorySink) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dirty) > 0
}

// Flush writes every changed file to dst and returns the paths written.
// Files that fail to write stay dirty. The first error is returned.
func (m *MemorySink) Flush(dst Sink) ([]string, error) {
	// Snapshot under the lock, then do the I/O without it.
	m.mu.Lock()
	dirs := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		dirs = append(dirs, d)
	}
	snapshot := make(map[string][]byte, len(m.dirty))
	for name := range m.dirty {
		snapshot[name] = append([]byte(nil), m.files[name].Data...)
		delete(m.dirty, name)
	}
	m.mu.Unlock()

	sort.Strings(dirs)
	for _, d := range dirs {
		if err := dst.MkdirAll(d); err != nil {
			m.markDirty(snapshot)
			return nil, err
		}
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	written := make([]string, 0, len(names))
	for _, name := range names {
		if err := dst.WriteFile(name, snapshot[name]); err != nil {
			m.markDirty(map[string][]byte{name: nil})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, name)
	}
	return written, firstErr
}

func (m *MemorySink) markDirty(names map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range names {
		if _, ok := m.files[name]; ok {
			m.dirty[name] = true
		}
	}
}
