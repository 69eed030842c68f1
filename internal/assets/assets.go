// Package assets owns the GPU resources a scene is built from and caches
// them by name.
package assets

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/scene"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

// Backend creates and releases the underlying GPU objects.
type Backend interface {
	UploadTexture(img *image.RGBA) gpu.Texture
	DeleteTexture(tex gpu.Texture)
	UploadMesh(name string, m *geometry.Mesh) gpu.Mesh
	DeleteMesh(m gpu.Mesh)
	NewSampler(name string) gpu.Sampler
	DeleteSampler(s gpu.Sampler)
}

// program is a registered stage pair.
type program struct {
	vertex, pixel gpu.Stage
}

// Manager implements scene.Factory. A name is uploaded once; later requests
// for the same name return the cached object until Close.
type Manager struct {
	backend  Backend
	log      *zap.Logger
	programs map[string]program

	textures *Cache[gpu.Texture]
	meshes   *Cache[gpu.Mesh]
	samplers *Cache[gpu.Sampler]
}

var _ scene.Factory = (*Manager)(nil)

// NewManager creates a manager uploading through backend.
func NewManager(backend Backend, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		backend:  backend,
		log:      log,
		programs: make(map[string]program),
		textures: NewCache[gpu.Texture](),
		meshes:   NewCache[gpu.Mesh](),
		samplers: NewCache[gpu.Sampler](),
	}
}

// RegisterProgram makes a stage pair available to materials under name.
func (m *Manager) RegisterProgram(name string, vertex, pixel gpu.Stage) {
	m.programs[name] = program{vertex: vertex, pixel: pixel}
}

// ProgramNames lists the registered program names.
func (m *Manager) ProgramNames() []string {
	names := make([]string, 0, len(m.programs))
	for name := range m.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Program returns a registered stage pair.
func (m *Manager) Program(name string) (gpu.Stage, gpu.Stage, error) {
	p, ok := m.programs[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", scene.ErrUnknownShader, name)
	}
	return p.vertex, p.pixel, nil
}

// Texture uploads img under name, or returns the texture already there.
func (m *Manager) Texture(name string, img *image.RGBA) gpu.Texture {
	if tex, ok := m.textures.Get(name); ok {
		return tex
	}
	tex := m.backend.UploadTexture(img)
	m.textures.Set(name, tex)
	m.log.Debug("texture uploaded",
		zap.String("name", name),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return tex
}

// Mesh uploads geometry under name, or returns the mesh already there.
func (m *Manager) Mesh(name string, g *geometry.Mesh) gpu.Mesh {
	if mesh, ok := m.meshes.Get(name); ok {
		return mesh
	}
	mesh := m.backend.UploadMesh(name, g)
	m.meshes.Set(name, mesh)
	m.log.Debug("mesh uploaded",
		zap.String("name", name),
		zap.Int("vertices", len(g.Vertices)),
		zap.Int("indices", len(g.Indices)),
	)
	return mesh
}

// Sampler returns the named sampler preset, creating it on first use.
func (m *Manager) Sampler(name string) gpu.Sampler {
	if s, ok := m.samplers.Get(name); ok {
		return s
	}
	s := m.backend.NewSampler(name)
	m.samplers.Set(name, s)
	return s
}

// Stats returns texture cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	return m.textures.Stats()
}

// Close releases every cached object.
func (m *Manager) Close() {
	m.textures.Each(func(_ string, tex gpu.Texture) { m.backend.DeleteTexture(tex) })
	m.meshes.Each(func(_ string, mesh gpu.Mesh) { m.backend.DeleteMesh(mesh) })
	m.samplers.Each(func(_ string, s gpu.Sampler) { m.backend.DeleteSampler(s) })
	m.log.Info("assets released",
		zap.Int("textures", m.textures.Len()),
		zap.Int("meshes", m.meshes.Len()),
		zap.Int("samplers", m.samplers.Len()),
	)
	m.textures.Clear()
	m.meshes.Clear()
	m.samplers.Clear()
}

// Cache is a name-keyed store that counts hits and misses.
type Cache[V any] struct {
	data map[string]V
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		data: make(map[string]V),
	}
}

// Get retrieves an item from cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Len returns the number of cached items.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Each calls fn for every item. fn must not modify the cache.
func (c *Cache[V]) Each(fn func(key string, v V)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.data {
		fn(k, v)
	}
}

// Clear clears the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]V)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
