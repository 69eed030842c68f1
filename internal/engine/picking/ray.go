// Package picking casts rays from the screen to select entities.
package picking

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/entity"
)

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay unprojects a pixel position into a world-space ray.
// y grows downwards as in window coordinates.
func ScreenToRay(x, y, width, height float32, view, projection mgl32.Mat4) Ray {
	inv := projection.Mul4(view).Inv()
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	near := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, -1}, inv)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndcX, ndcY, 1}, inv)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

// IntersectAABB returns the distance to the first hit on box using the slab
// test. A ray starting inside the box hits at its exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Transform returns the world-space box enclosing b after m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	var out AABB
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			out.Min, out.Max = p, p
			continue
		}
		for k := 0; k < 3; k++ {
			out.Min[k] = math32.Min(out.Min[k], p[k])
			out.Max[k] = math32.Max(out.Max[k], p[k])
		}
	}
	return out
}

// Bounds returns the local box of an entity's mesh.
type Bounds func(e *entity.Entity) (AABB, bool)

// Pick returns the nearest entity whose world box the ray hits.
// Entities without bounds are skipped.
func Pick(r Ray, entities []*entity.Entity, bounds Bounds) (*entity.Entity, float32, bool) {
	var (
		best  *entity.Entity
		bestT = float32(math.MaxFloat32)
	)
	for _, e := range entities {
		local, ok := bounds(e)
		if !ok {
			continue
		}
		t, hit := r.IntersectAABB(local.Transform(e.Transform().World()))
		if hit && t < bestT {
			best, bestT = e, t
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestT, true
}
