package renderer

import (
	"image"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

// Sampler presets by name.
const (
	SamplerBasic = "basic"
	SamplerClamp = "clamp"
)

// Device creates and releases GL objects on behalf of the asset manager.
type Device struct{}

func (Device) UploadTexture(img *image.RGBA) gpu.Texture { return UploadTexture(img) }
func (Device) DeleteTexture(tex gpu.Texture)             { DeleteTexture(tex) }
func (Device) DeleteSampler(s gpu.Sampler)               { DeleteSampler(s) }

func (Device) UploadMesh(name string, m *geometry.Mesh) gpu.Mesh {
	return NewMesh(name, m)
}

func (Device) DeleteMesh(m gpu.Mesh) {
	if mesh, ok := m.(*Mesh); ok {
		mesh.Delete()
	}
}

// NewSampler creates the named preset; unknown names get the basic preset.
func (Device) NewSampler(name string) gpu.Sampler {
	if name == SamplerClamp {
		return NewSampler(ClampSamplerDesc)
	}
	return NewSampler(BasicSamplerDesc)
}
