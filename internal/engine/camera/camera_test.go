package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func newTestCamera() *Camera {
	return New(mgl32.Vec3{0, 0, -10}, 3, 1, 16.0/9.0)
}

func TestNewLooksDownPositiveZ(t *testing.T) {
	c := newTestCamera()
	assert.True(t, c.Forward().ApproxEqual(mgl32.Vec3{0, 0, 1}))
	assert.Equal(t, mgl32.Vec3{0, 0, -10}, c.Position())

	// The origin sits straight ahead, so it maps onto the view axis.
	p := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, -10, p.Z(), 1e-5)
}

func TestUpdateMovement(t *testing.T) {
	tests := []struct {
		name string
		in   Controls
		want mgl32.Vec3
	}{
		{"forward", Controls{Forward: true}, mgl32.Vec3{0, 0, -7}},
		{"back", Controls{Back: true}, mgl32.Vec3{0, 0, -13}},
		{"up", Controls{Up: true}, mgl32.Vec3{0, 3, -10}},
		{"down", Controls{Down: true}, mgl32.Vec3{0, -3, -10}},
		{"fast", Controls{Forward: true, Fast: true}, mgl32.Vec3{0, 0, 5}},
		{"slow", Controls{Forward: true, Slow: true}, mgl32.Vec3{0, 0, -9.7}},
		{"idle", Controls{}, mgl32.Vec3{0, 0, -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera()
			c.Update(1, tt.in)
			assert.True(t, c.Position().ApproxEqualThreshold(tt.want, 1e-4), "got %v", c.Position())
		})
	}
}

func TestStrafeIsPerpendicular(t *testing.T) {
	c := newTestCamera()
	c.Update(1, Controls{Right: true})
	d := c.Position().Sub(mgl32.Vec3{0, 0, -10})
	assert.InDelta(t, 3, d.Len(), 1e-4)
	assert.InDelta(t, 0, d.Dot(c.Forward()), 1e-4)
}

func TestDragRotates(t *testing.T) {
	c := newTestCamera()
	c.Update(0, Controls{Dragging: true, DX: 100})
	_, yaw := c.PitchYaw()
	assert.Less(t, yaw, float32(0))

	// Motion without the button held does nothing.
	before := c.Forward()
	c.Update(0, Controls{DX: 100, DY: 50})
	assert.Equal(t, before, c.Forward())
}

func TestPitchIsClamped(t *testing.T) {
	c := newTestCamera()
	c.Update(0, Controls{Dragging: true, DY: -1e6})
	pitch, _ := c.PitchYaw()
	assert.LessOrEqual(t, pitch, float32(maxPitch))
	assert.Greater(t, pitch, float32(1.5))
}

func TestUpdateProjection(t *testing.T) {
	c := newTestCamera()
	before := c.Projection()
	c.UpdateProjection(1)
	assert.Equal(t, float32(1), c.Aspect())
	assert.NotEqual(t, before, c.Projection())

	c.UpdateProjection(0)
	assert.Equal(t, float32(1), c.Aspect())
}
