// Package sky draws the environment cube and supplies its image-based
// lighting maps.
package sky

import (
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/renderer"
	"github.com/Faultbox/pbrview/internal/engine/shader"
	"github.com/Faultbox/pbrview/internal/engine/texture"
)

// Sizes of the precomputed maps.
const (
	IrradianceSize       = 32
	IrradianceSampleSize = 16
	BRDFLookupSize       = 128
	BRDFSamples          = 128
	SpecularSize         = 64
	SpecularSamples      = 32
)

// Default procedural sky colors.
var (
	DefaultZenith  = mgl32.Vec3{0.18, 0.32, 0.62}
	DefaultHorizon = mgl32.Vec3{0.75, 0.78, 0.80}
	DefaultNadir   = mgl32.Vec3{0.22, 0.20, 0.18}
)

// DefaultSize is the face size of the procedural sky.
const DefaultSize = 256

// LoadSource returns the cube faces from dir, or the procedural gradient sky
// when dir is empty.
func LoadSource(dir, ext string) (texture.Cube, error) {
	if dir == "" {
		return texture.GradientCube(DefaultSize, DefaultZenith, DefaultHorizon, DefaultNadir), nil
	}
	return texture.LoadCube(dir, ext)
}

// Sky owns the environment textures and the cube it draws them on.
type Sky struct {
	program *shader.Program
	mesh    gpu.Mesh
	sampler gpu.Sampler

	skyMap     gpu.Texture
	specular   gpu.Texture
	irradiance gpu.Texture
	brdf       gpu.Texture
	mipLevels  int
}

var _ frame.Environment = (*Sky)(nil)

// New precomputes the IBL maps for src and uploads everything.
// mesh must be a cube around the origin; sampler should clamp.
func New(src texture.Cube, program *shader.Program, mesh gpu.Mesh, sampler gpu.Sampler, log *zap.Logger) *Sky {
	start := time.Now()
	irr := texture.IrradianceCube(src, IrradianceSize, IrradianceSampleSize)
	spec := texture.PrefilterSpecular(src, SpecularSize, SpecularSamples)
	lut := texture.BRDFLookup(BRDFLookupSize, BRDFSamples)

	s := &Sky{
		program:    program,
		mesh:       mesh,
		sampler:    sampler,
		skyMap:     renderer.UploadCubemap(src, true),
		specular:   renderer.UploadCubemapMips(spec),
		irradiance: renderer.UploadCubemap(irr, false),
		brdf:       renderer.UploadTexture(lut),
		mipLevels:  len(spec),
	}
	log.Info("environment ready",
		zap.Int("size", src.Size()),
		zap.Int("specularMips", s.mipLevels),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s
}

func (s *Sky) IrradianceMap() gpu.Texture { return s.irradiance }
func (s *Sky) SpecularMap() gpu.Texture   { return s.specular }
func (s *Sky) BRDFLookup() gpu.Texture    { return s.brdf }
func (s *Sky) SpecularMipLevels() int     { return s.mipLevels }

// Draw renders the sky behind everything already drawn.
func (s *Sky) Draw(cam *camera.Camera) {
	vs, ps := s.program.Vertex(), s.program.Pixel()
	vs.SetMatrix4(frame.UniformView, cam.View())
	vs.SetMatrix4(frame.UniformProjection, cam.Projection())
	ps.SetTexture("SkyTexture", s.skyMap)
	ps.SetSampler(shader.ClampSampler, s.sampler)
	vs.Flush()
	ps.Flush()
	vs.Use()

	gl.DepthFunc(gl.LEQUAL)
	gl.CullFace(gl.FRONT)
	s.mesh.Draw()
	gl.CullFace(gl.BACK)
	gl.DepthFunc(gl.LESS)
}

// Delete releases the environment textures. The mesh and sampler belong to
// the caller.
func (s *Sky) Delete() {
	renderer.DeleteTexture(s.skyMap)
	renderer.DeleteTexture(s.specular)
	renderer.DeleteTexture(s.irradiance)
	renderer.DeleteTexture(s.brdf)
}
