// Package transform provides per-entity position, rotation and scale with
// lazily derived world matrices.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Transform holds position, rotation and scale.
// World matrices are recomputed on first access after a mutation.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	// Euler angles (pitch, yaw, roll) in radians, kept for editors.
	pitchYawRoll mgl32.Vec3

	dirty                 bool
	world                 mgl32.Mat4
	worldInverseTranspose mgl32.Mat4
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		dirty:    true,
	}
}

// Position returns the world position.
func (t *Transform) Position() mgl32.Vec3 { return t.position }

// Rotation returns the orientation quaternion.
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }

// PitchYawRoll returns the Euler angles last set through SetRotation.
func (t *Transform) PitchYawRoll() mgl32.Vec3 { return t.pitchYawRoll }

// Scale returns the per-axis scale.
func (t *Transform) Scale() mgl32.Vec3 { return t.scale }

// SetPosition sets the world position.
func (t *Transform) SetPosition(x, y, z float32) {
	t.position = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// MoveAbsolute offsets the position in world space.
func (t *Transform) MoveAbsolute(x, y, z float32) {
	t.position = t.position.Add(mgl32.Vec3{x, y, z})
	t.dirty = true
}

// SetRotation sets the orientation from pitch (X), yaw (Y) and roll (Z) in radians.
func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.pitchYawRoll = mgl32.Vec3{pitch, yaw, roll}
	t.rotation = mgl32.AnglesToQuat(yaw, pitch, roll, mgl32.YXZ)
	t.dirty = true
}

// SetOrientation sets the orientation quaternion directly.
func (t *Transform) SetOrientation(q mgl32.Quat) {
	t.rotation = q.Normalize()
	t.dirty = true
}

// SetScale sets the per-axis scale. Zero or negative components are accepted.
func (t *Transform) SetScale(x, y, z float32) {
	t.scale = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// World returns the world matrix T * R * S.
func (t *Transform) World() mgl32.Mat4 {
	t.update()
	return t.world
}

// WorldInverseTranspose returns the inverse-transpose of the world matrix,
// used to transform normals.
func (t *Transform) WorldInverseTranspose() mgl32.Mat4 {
	t.update()
	return t.worldInverseTranspose
}

func (t *Transform) update() {
	if !t.dirty {
		return
	}
	t.world = Compose(t.position, t.rotation, t.scale)
	t.worldInverseTranspose = InverseTranspose(t.world)
	t.dirty = false
}

// Compose builds T * R * S.
func Compose(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	translate := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	rotate := rotation.Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return translate.Mul4(rotate).Mul4(s)
}

// InverseTranspose returns (M^-1)^T. A singular matrix yields the zero matrix.
func InverseTranspose(m mgl32.Mat4) mgl32.Mat4 {
	return m.Inv().Transpose()
}
