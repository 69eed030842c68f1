package lighting

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalCount is the number of fixed directional lights at the head of
// every generated collection.
const DirectionalCount = 3

// Bounds of the randomly generated point lights.
var (
	PointMin = mgl32.Vec3{-10, -5, -10}
	PointMax = mgl32.Vec3{10, 5, 10}
)

const (
	MinPointRange     = 5.0
	MaxPointRange     = 10.0
	MinPointIntensity = 0.1
	MaxPointIntensity = 3.0
)

// ErrCapacity is returned for a light capacity outside [DirectionalCount, MaxLights].
var ErrCapacity = errors.New("invalid light capacity")

// Directionals returns the key, fill and rim lights.
func Directionals() [DirectionalCount]Light {
	return [DirectionalCount]Light{
		{
			Type:      TypeDirectional,
			Direction: mgl32.Vec3{1, -1, 1},
			Color:     mgl32.Vec3{0.8, 0.8, 0.8},
			Intensity: 1,
		},
		{
			Type:      TypeDirectional,
			Direction: mgl32.Vec3{-1, -0.25, 0},
			Color:     mgl32.Vec3{0.2, 0.2, 0.2},
			Intensity: 1,
		},
		{
			Type:      TypeDirectional,
			Direction: mgl32.Vec3{0, -1, 1},
			Color:     mgl32.Vec3{0.2, 0.2, 0.2},
			Intensity: 1,
		},
	}
}

// Generate fills dst (reusing its backing array) with the directional lights
// followed by random point lights until it holds capacity lights.
func Generate(dst []Light, capacity int, rng *rand.Rand) []Light {
	dst = dst[:0]
	for _, d := range Directionals() {
		dst = append(dst, d)
	}
	for len(dst) < capacity {
		dst = append(dst, RandomPoint(rng))
	}
	return dst
}

// RandomPoint returns a point light drawn uniformly from the generation ranges.
func RandomPoint(rng *rand.Rand) Light {
	return Light{
		Type: TypePoint,
		Position: mgl32.Vec3{
			randomRange(rng, PointMin.X(), PointMax.X()),
			randomRange(rng, PointMin.Y(), PointMax.Y()),
			randomRange(rng, PointMin.Z(), PointMax.Z()),
		},
		Color: mgl32.Vec3{
			randomRange(rng, 0, 1),
			randomRange(rng, 0, 1),
			randomRange(rng, 0, 1),
		},
		Range:     randomRange(rng, MinPointRange, MaxPointRange),
		Intensity: randomRange(rng, MinPointIntensity, MaxPointIntensity),
	}
}

// randomRange returns a value in [lo, hi].
func randomRange(rng *rand.Rand, lo, hi float32) float32 {
	v := lo + rng.Float32()*(hi-lo)
	// Float32 rounding can land a hair past hi.
	return mgl32.Clamp(v, lo, hi)
}

// NewRand returns a PCG source. A zero seed is replaced by the wall clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Set is a fixed-capacity light collection that owns its random source.
type Set struct {
	capacity int
	rng      *rand.Rand
	lights   []Light
}

// NewSet creates a set and generates its first population.
func NewSet(capacity int, rng *rand.Rand) (*Set, error) {
	if capacity < DirectionalCount || capacity > MaxLights {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrCapacity, capacity, DirectionalCount, MaxLights)
	}
	s := &Set{
		capacity: capacity,
		rng:      rng,
		lights:   make([]Light, 0, capacity),
	}
	s.Regenerate()
	return s, nil
}

// Regenerate replaces the whole collection.
func (s *Set) Regenerate() {
	s.lights = Generate(s.lights, s.capacity, s.rng)
}

// Capacity returns the declared light count.
func (s *Set) Capacity() int { return s.capacity }

// Len returns the number of lights (always Capacity after generation).
func (s *Set) Len() int { return len(s.lights) }

// Lights returns the live collection. Callers may edit entries in place.
func (s *Set) Lights() []Light { return s.lights }

// At returns a pointer to light i for editing.
func (s *Set) At(i int) *Light { return &s.lights[i] }

// PointCount returns how many lights are of TypePoint.
func (s *Set) PointCount() int {
	n := 0
	for _, l := range s.lights {
		if l.Type == TypePoint {
			n++
		}
	}
	return n
}
