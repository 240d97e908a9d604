// Package cache keeps converted declaration groups on disk, keyed by the
// hash of the preprocessed source and the settings that shaped it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	"c2cs/pkg/convert"
)

// schemaVersion changes whenever Entry changes shape.
const schemaVersion uint16 = 1

// Key identifies one cached conversion.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// NewKey hashes the preprocessed source together with every setting that
// affects the generated text.
func NewKey(source string, settings ...string) Key {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(source), source)
	for _, s := range settings {
		fmt.Fprintf(h, "%d:%s", len(s), s)
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Entry is the on-disk record.
type Entry struct {
	Schema    uint16         `msgpack:"schema"`
	Generator string         `msgpack:"generator"`
	Source    string         `msgpack:"source"`
	Output    convert.Output `msgpack:"output"`
}

// Cache is a directory of msgpack entries. A nil *Cache is a valid, always
// missing cache. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	dir        string
	version    string
	compatible *semver.Constraints
}

// Open prepares dir as a cache written by generator version. Entries are
// reused only when their generator shares the running major.minor version.
func Open(dir, version string) (*Cache, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "cache: generator version %q", version)
	}
	c, err := semver.NewConstraint(fmt.Sprintf("~%d.%d", v.Major(), v.Minor()))
	if err != nil {
		return nil, errors.Wrap(err, "cache: version constraint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cache: creating %s", dir)
	}
	return &Cache{dir: dir, version: v.String(), compatible: c}, nil
}

func (c *Cache) pathFor(k Key) string {
	s := k.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Put stores out under k, replacing any previous entry atomically.
func (c *Cache) Put(k Key, source string, out *convert.Output) error {
	if c == nil || out == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "cache")
	}
	data, err := msgpack.Marshal(&Entry{
		Schema:    schemaVersion,
		Generator: c.version,
		Source:    source,
		Output:    *out,
	})
	if err != nil {
		return errors.Wrap(err, "cache: encoding entry")
	}

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return errors.Wrap(err, "cache")
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "cache: writing entry")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "cache")
	}
	return errors.Wrap(os.Rename(tmp, p), "cache")
}

// Get returns the output stored under k. Entries from another schema or an
// incompatible generator version count as misses.
func (c *Cache) Get(k Key) (*convert.Output, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(k))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "cache")
	}

	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, errors.Wrapf(err, "cache: decoding %s", k)
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	v, err := semver.NewVersion(e.Generator)
	if err != nil || !c.compatible.Check(v) {
		return nil, false, nil
	}
	return &e.Output, true, nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return errors.Wrap(err, "cache")
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return errors.Wrap(err, "cache")
		}
	}
	return nil
}
