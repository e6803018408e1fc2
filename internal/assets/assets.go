// Package assets loads model, animation and texture files from data
// directories and zip packages.
package assets

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/afero/zipfs"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/logger"
)

// ErrNotFound is returned when no source contains the requested file.
var ErrNotFound = errors.New("asset not found")

type source struct {
	name   string
	fs     afero.Fs
	closer io.Closer
}

// Manager resolves asset paths against an ordered list of sources.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
}

// AddDir adds a directory on disk as a read-only source.
func (m *Manager) AddDir(dir string) error {
	osFs := afero.NewOsFs()
	ok, err := afero.DirExists(osFs, dir)
	if err != nil {
		return fmt.Errorf("checking data dir %s: %w", dir, err)
	}
	if !ok {
		return fmt.Errorf("data dir %s: %w", dir, os.ErrNotExist)
	}
	m.AddFs(dir, afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, dir)))
	return nil
}

// AddPackage adds a zip package as a source.
func (m *Manager) AddPackage(file string) error {
	r, err := zip.OpenReader(file)
	if err != nil {
		return fmt.Errorf("opening package %s: %w", file, err)
	}
	m.add(source{name: file, fs: zipfs.New(&r.Reader), closer: r})
	return nil
}

// AddFs adds an arbitrary filesystem as a source.
func (m *Manager) AddFs(name string, fs afero.Fs) {
	m.add(source{name: name, fs: fs})
}

func (m *Manager) add(s source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
	m.log.Debug("added asset source", zap.String("source", s.name))
}

// Load reads a file, consulting the cache first.
func (m *Manager) Load(name string) ([]byte, error) {
	key := Clean(name)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		s := m.sources[i]
		data, err := afero.ReadFile(s.fs, key)
		if err != nil {
			continue
		}
		m.cache.Set(key, data)
		m.log.Debug("loaded asset",
			zap.String("path", key),
			zap.String("source", s.name),
			zap.Int("bytes", len(data)))
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Exists reports whether any source contains the file.
func (m *Manager) Exists(name string) bool {
	key := Clean(name)
	if _, ok := m.cache.Get(key); ok {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.sources) - 1; i >= 0; i-- {
		if ok, _ := afero.Exists(m.sources[i].fs, key); ok {
			return true
		}
	}
	return false
}

// Invalidate drops a cached file so the next Load reads it again.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(Clean(name))
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close closes all packages and clears the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sources {
		if s.closer == nil {
			continue
		}
		if err := s.closer.Close(); err != nil {
			m.log.Warn("closing asset source", zap.String("source", s.name), zap.Error(err))
		}
	}
	m.sources = nil
	m.cache.Clear()
}

// Clean normalizes an asset path: forward slashes, no leading slash, no dot segments.
func Clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}

// Dir returns the directory part of an asset path.
func Dir(name string) string {
	d := path.Dir(Clean(name))
	if d == "." {
		return ""
	}
	return d
}

// Join joins asset path elements.
func Join(elem ...string) string {
	return Clean(path.Join(elem...))
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
