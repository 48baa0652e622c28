// Package assets handles game asset loading and caching.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/lod"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/texture"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/formats"
)

// ErrNoUsableEntries reports a manifest section where every entry failed to
// load.
var ErrNoUsableEntries = errors.New("no usable manifest entries")

// Manager loads assets from one or more directories.
type Manager struct {
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates an asset manager rooted at the given directories.
func NewManager(dirs ...string) *Manager {
	return &Manager{
		dirs:  dirs,
		cache: NewCache(),
	}
}

// AddDir adds an asset directory to the manager.
// Directories are searched in reverse order (last added = highest priority),
// so a user directory added after the built-in one overrides it.
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset path %s is not a directory", path)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, path)
	m.mu.Unlock()

	return nil
}

// Load reads a file from the asset directories.
func (m *Manager) Load(path string) ([]byte, error) {
	// Check cache first
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Search directories in reverse order
	for i := len(m.dirs) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(m.dirs[i], path))
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("asset not found: %s", path)
}

// LoadMesh loads and parses an OBJ model.
func (m *Manager) LoadMesh(path string) (*mesh.Mesh, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return mesh.FromOBJ(obj), nil
}

// LoadImage loads a texture image. TGA has its own decoder; PNG and JPEG go
// through image.Decode.
func (m *Manager) LoadImage(path string) (*image.RGBA, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = texture.DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return texture.ImageToRGBA(img), nil
}

// LoadRockTypes loads every rock entry in the manifest and generates the LOD
// chain for each model. Entries whose model fails to load are skipped with a
// warning; a missing texture falls back to the placeholder.
func (m *Manager) LoadRockTypes(man *Manifest) ([]rocks.Type, error) {
	types := make([]rocks.Type, 0, len(man.Rocks))
	for _, entry := range man.Rocks {
		msh, err := m.LoadMesh(entry.Model)
		if err != nil {
			logger.Warn("skipping rock type",
				zap.String("name", entry.Name),
				zap.Error(err))
			continue
		}

		types = append(types, rocks.Type{
			Name:   entry.Name,
			Levels: lod.GenerateLevels(msh),
			Image:  m.textureOrPlaceholder(entry.Texture, entry.Name),
		})
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("%w: rocks", ErrNoUsableEntries)
	}
	return types, nil
}

// LoadGrassGroups loads every grass group in the manifest. Types whose model
// fails to load are skipped with a warning; groups left with no types are
// dropped. Weights are normalized across the surviving groups and types.
func (m *Manager) LoadGrassGroups(man *Manifest) ([]grass.Group, error) {
	groups := make([]grass.Group, 0, len(man.Grass))
	for _, ge := range man.Grass {
		group := grass.Group{
			Name:   ge.Name,
			Weight: ge.Weight,
			Types:  make([]grass.Type, 0, len(ge.Types)),
		}

		for _, te := range ge.Types {
			msh, err := m.LoadMesh(te.Model)
			if err != nil {
				logger.Warn("skipping grass type",
					zap.String("group", ge.Name),
					zap.String("name", te.Name),
					zap.Error(err))
				continue
			}

			group.Types = append(group.Types, grass.Type{
				Name:   te.Name,
				Weight: te.Weight,
				Mesh:   msh,
				Image:  m.textureOrPlaceholder(te.Texture, te.Name),
			})
		}

		if len(group.Types) == 0 {
			logger.Warn("dropping grass group with no usable types",
				zap.String("group", ge.Name))
			continue
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: grass", ErrNoUsableEntries)
	}

	grass.NormalizeWeights(groups)
	return groups, nil
}

// textureOrPlaceholder loads a texture, substituting the checkerboard when
// the path is empty or the image fails to decode. A bad texture should not
// take a model down with it.
func (m *Manager) textureOrPlaceholder(path, name string) *image.RGBA {
	if path == "" {
		return texture.Checkerboard()
	}

	img, err := m.LoadImage(path)
	if err != nil {
		logger.Warn("texture missing, using placeholder",
			zap.String("name", name),
			zap.String("path", path),
			zap.Error(err))
		return texture.Checkerboard()
	}
	return img
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache. The write lock covers the hit counters.
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
