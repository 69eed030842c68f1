package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/entity"
)

func approx(a, b float32) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func unitBox() AABB {
	return AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}
}

func TestScreenCenterRay(t *testing.T) {
	eye := mgl32.Vec3{0, 0, -10}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)

	r := ScreenToRay(640, 360, 1280, 720, view, proj)

	if !approx(r.Direction.Z(), 1) {
		t.Errorf("direction = %v, want +Z", r.Direction)
	}
	if !approx(r.Origin.X(), 0) || !approx(r.Origin.Y(), 0) {
		t.Errorf("origin = %v, want on the Z axis", r.Origin)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := unitBox()
	tests := []struct {
		name string
		ray  Ray
		hit  bool
		t    float32
	}{
		{"front", Ray{mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, 1}}, true, 4.5},
		{"miss", Ray{mgl32.Vec3{2, 0, -5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, true, 0.5},
		{"parallel outside", Ray{mgl32.Vec3{0, 1, -5}, mgl32.Vec3{0, 0, 1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && !approx(got, tt.t) {
				t.Errorf("t = %v, want %v", got, tt.t)
			}
		})
	}
}

func TestTransformEnclosesRotatedBox(t *testing.T) {
	m := mgl32.Translate3D(3, 0, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))
	got := unitBox().Transform(m)

	half := float32(0.7071)
	if !approx(got.Min.X(), 3-half) || !approx(got.Max.X(), 3+half) {
		t.Errorf("x extent = [%v, %v]", got.Min.X(), got.Max.X())
	}
	if !approx(got.Min.Y(), -0.5) || !approx(got.Max.Y(), 0.5) {
		t.Errorf("y extent = [%v, %v]", got.Min.Y(), got.Max.Y())
	}
}

func TestPickNearest(t *testing.T) {
	near := entity.New("near", nil, nil)
	near.Transform().SetPosition(0, 0, 0)
	far := entity.New("far", nil, nil)
	far.Transform().SetPosition(0, 0, 5)
	unbounded := entity.New("unbounded", nil, nil)
	unbounded.Transform().SetPosition(0, 0, -3)

	bounds := func(e *entity.Entity) (AABB, bool) {
		if e == unbounded {
			return AABB{}, false
		}
		return unitBox(), true
	}
	r := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}

	got, dist, ok := Pick(r, []*entity.Entity{far, unbounded, near}, bounds)
	if !ok || got != near {
		t.Fatalf("Pick = %v, %v", got, ok)
	}
	if !approx(dist, 9.5) {
		t.Errorf("distance = %v, want 9.5", dist)
	}

	r.Origin = mgl32.Vec3{4, 0, -10}
	if _, _, ok := Pick(r, []*entity.Entity{near, far}, bounds); ok {
		t.Error("expected a miss")
	}
}
