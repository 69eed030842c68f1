// Package camera provides the free-flying view camera.
package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default projection parameters.
const (
	DefaultFOV  = 45.0 // degrees
	DefaultNear = 0.01
	DefaultFar  = 1000.0
)

// Speed modifiers applied while Fast or Slow is held.
const (
	FastMultiplier = 5.0
	SlowMultiplier = 0.1
)

// mouseSensitivity converts drag pixels to radians before LookSpeed is applied.
const mouseSensitivity = 0.005

// maxPitch keeps the forward vector off the up axis.
const maxPitch = math.Pi/2 - 0.01

// Controls is the per-frame input snapshot the camera reacts to.
type Controls struct {
	Forward, Back bool
	Left, Right   bool
	Up, Down      bool
	Fast, Slow    bool

	// Dragging is true while the look button is held; DX/DY is the mouse
	// motion since last frame in pixels.
	Dragging bool
	DX, DY   float32
}

// Camera flies freely: WASD moves along the view axes, drag rotates.
type Camera struct {
	position mgl32.Vec3
	pitch    float32 // radians, positive looks up
	yaw      float32 // radians, zero looks down +Z

	MoveSpeed float32 // units per second
	LookSpeed float32 // multiplier on mouse sensitivity

	FOV       float32 // vertical, degrees
	Near, Far float32

	aspect     float32
	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New creates a camera at position looking down +Z.
func New(position mgl32.Vec3, moveSpeed, lookSpeed, aspect float32) *Camera {
	c := &Camera{
		position:  position,
		MoveSpeed: moveSpeed,
		LookSpeed: lookSpeed,
		FOV:       DefaultFOV,
		Near:      DefaultNear,
		Far:       DefaultFar,
	}
	c.UpdateProjection(aspect)
	c.updateView()
	return c
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the eye.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.updateView()
}

// PitchYaw returns the orientation in radians.
func (c *Camera) PitchYaw() (pitch, yaw float32) { return c.pitch, c.yaw }

// SetPitchYaw sets the orientation in radians. Pitch is clamped.
func (c *Camera) SetPitchYaw(pitch, yaw float32) {
	c.pitch = mgl32.Clamp(pitch, -maxPitch, maxPitch)
	c.yaw = yaw
	c.updateView()
}

// Aspect returns the aspect ratio of the last projection update.
func (c *Camera) Aspect() float32 { return c.aspect }

// View returns the world to view matrix.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the view to clip matrix.
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	sp, cp := math32.Sincos(c.pitch)
	sy, cy := math32.Sincos(c.yaw)
	return mgl32.Vec3{sy * cp, sp, cy * cp}
}

// Right returns the unit vector pointing to the right of the screen.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// UpdateProjection rebuilds the projection for a new aspect ratio.
func (c *Camera) UpdateProjection(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.aspect = aspect
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Update applies one frame of input. dt is in seconds.
func (c *Camera) Update(dt float32, in Controls) {
	speed := c.MoveSpeed * dt
	if in.Fast {
		speed *= FastMultiplier
	}
	if in.Slow {
		speed *= SlowMultiplier
	}

	forward := c.Forward()
	right := c.Right()
	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Back {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Up {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.Down {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	c.position = c.position.Add(move.Mul(speed))

	if in.Dragging && (in.DX != 0 || in.DY != 0) {
		look := mouseSensitivity * c.LookSpeed
		c.yaw -= in.DX * look
		c.pitch = mgl32.Clamp(c.pitch-in.DY*look, -maxPitch, maxPitch)
	}

	c.updateView()
}

func (c *Camera) updateView() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}
