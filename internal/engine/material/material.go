// Package material maps the material names used by model files to registry
// handles and precaches their images.
package material

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/assets"
	"github.com/Faultbox/midgard-smd/internal/engine/texture"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// PlaceholderName is the registry name of the material drawn for missing names.
const PlaceholderName = "-NOFLAT-"

// HitFlat marks a material as used by a flat (model) surface in a precache hitlist.
const HitFlat uint8 = 1 << 0

// Source is where material images are read from.
type Source interface {
	Load(name string) ([]byte, error)
	Exists(name string) bool
}

// Material is a registered image.
type Material struct {
	ID   formats.MaterialID
	Name string // Lookup key
	Path string // Asset path, empty for built-ins

	img image.Image
}

// Registry owns all materials. It satisfies formats.MaterialResolver.
type Registry struct {
	src       Source
	materials []*Material
	byName    map[string]formats.MaterialID
	mu        sync.RWMutex
	log       *zap.Logger
}

var _ formats.MaterialResolver = (*Registry)(nil)

// NewRegistry creates a registry holding only the placeholder.
// src may be nil, in which case only explicitly registered names resolve.
func NewRegistry(src Source) *Registry {
	r := &Registry{
		src:    src,
		byName: make(map[string]formats.MaterialID),
		log:    logger.Named("material"),
	}
	r.materials = append(r.materials, &Material{
		ID:   0,
		Name: PlaceholderName,
		img:  texture.Checkerboard(64, 8),
	})
	r.byName[key(PlaceholderName)] = 0
	return r
}

// Register adds a global name for an asset path and returns its handle.
// Registering an existing name returns the existing handle.
func (r *Registry) Register(name, path string) formats.MaterialID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(name, path)
}

func (r *Registry) register(name, path string) formats.MaterialID {
	k := key(name)
	if id, ok := r.byName[k]; ok {
		return id
	}
	id := formats.MaterialID(len(r.materials))
	r.materials = append(r.materials, &Material{ID: id, Name: name, Path: path})
	r.byName[k] = id
	r.log.Debug("registered material", zap.String("name", name), zap.String("path", path), zap.Int("id", int(id)))
	return id
}

// Resolve looks name up in the global namespace when modelPath is empty and
// next to the model file otherwise. Names that exist in the source but are
// not registered yet are registered on first use.
func (r *Registry) Resolve(modelPath, name string) (formats.MaterialID, bool) {
	path := assets.Clean(name)
	if modelPath != "" {
		path = assets.Join(assets.Dir(modelPath), name)
	}

	r.mu.RLock()
	id, ok := r.byName[key(path)]
	if !ok && modelPath == "" {
		id, ok = r.byName[key(name)]
	}
	r.mu.RUnlock()
	if ok {
		return id, true
	}

	if r.src == nil || !texture.Supported(path) || !r.src.Exists(path) {
		return formats.NoMaterial, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(path, path), true
}

// Placeholder returns the handle of the missing-material image.
func (r *Registry) Placeholder() formats.MaterialID {
	return 0
}

// Get returns a material by handle.
func (r *Registry) Get(id formats.MaterialID) (*Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !id.Valid() || int(id) >= len(r.materials) {
		return nil, false
	}
	return r.materials[id], true
}

// Len returns the number of registered materials, placeholder included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.materials)
}

// Image returns the decoded image of a material, decoding it on first use.
// Images that fail to decode fall back to the placeholder image.
func (r *Registry) Image(id formats.MaterialID) (image.Image, error) {
	m, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown material %d", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m.img != nil {
		return m.img, nil
	}

	var (
		data []byte
		err  error
	)
	if r.src == nil {
		err = fmt.Errorf("no image source for %s", m.Path)
	} else {
		data, err = r.src.Load(m.Path)
	}
	if err == nil {
		m.img, err = texture.Decode(m.Path, data)
	}
	if err != nil {
		r.log.Warn("material image unavailable, using placeholder", zap.String("path", m.Path), zap.Error(err))
		m.img = r.materials[0].img
		return m.img, err
	}
	return m.img, nil
}

// NewHitlist returns a precache hitlist sized for every registered material.
func (r *Registry) NewHitlist() []uint8 {
	return make([]uint8, r.Len())
}

// Precache decodes the image of every material flagged in hitlist.
// It returns the number of images that failed to decode.
func (r *Registry) Precache(hitlist []uint8) int {
	failed := 0
	for i, flags := range hitlist {
		if flags&HitFlat == 0 {
			continue
		}
		if _, err := r.Image(formats.MaterialID(i)); err != nil {
			failed++
		}
	}
	return failed
}

// Mark flags id as used by a flat surface.
func Mark(hitlist []uint8, id formats.MaterialID) {
	if id.Valid() && int(id) < len(hitlist) {
		hitlist[id] |= HitFlat
	}
}

func key(name string) string {
	return strings.ToLower(name)
}
