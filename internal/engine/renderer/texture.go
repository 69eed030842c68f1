package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/texture"
)

// UploadTexture creates a 2D RGBA8 texture with a full mip chain.
func UploadTexture(img *image.RGBA) gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	b := img.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Texture(id)
}

// UpdateTexture replaces the level 0 contents of a texture of the same size.
func UpdateTexture(tex gpu.Texture, img *image.RGBA) {
	b := img.Bounds()
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(b.Dx()), int32(b.Dy()),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// UploadCubemap creates a cube texture. With mipmaps the chain is generated
// so rough reflections can sample blurrier levels.
func UploadCubemap(c texture.Cube, mipmaps bool) gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	size := int32(c.Size())
	for i, face := range c {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8, size, size, 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}

	minFilter := int32(gl.LINEAR)
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return gpu.Texture(id)
}

// UploadCubemapMips uploads levels as the mip chain of one cube map.
// Each level must be half the size of the one before.
func UploadCubemapMips(levels []texture.Cube) gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	for level, c := range levels {
		size := int32(c.Size())
		for i, face := range c {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), int32(level), gl.RGBA8, size, size, 0,
				gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
		}
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(len(levels)-1))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return gpu.Texture(id)
}

// DeleteTexture releases a texture.
func DeleteTexture(tex gpu.Texture) {
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}

// SamplerDesc selects filtering and addressing for a sampler object.
type SamplerDesc struct {
	Clamp         bool    // clamp to edge instead of repeat
	MaxAnisotropy float32 // 0 or 1 disables anisotropic filtering
}

// BasicSamplerDesc wraps and filters anisotropically.
var BasicSamplerDesc = SamplerDesc{MaxAnisotropy: 16}

// ClampSamplerDesc clamps, for lookup tables and cube maps.
var ClampSamplerDesc = SamplerDesc{Clamp: true}

// glTextureMaxAnisotropy is GL_TEXTURE_MAX_ANISOTROPY (core in 4.6, extension before).
const glTextureMaxAnisotropy = 0x84FE

// NewSampler creates a sampler object.
func NewSampler(d SamplerDesc) gpu.Sampler {
	var id uint32
	gl.GenSamplers(1, &id)

	wrap := int32(gl.REPEAT)
	if d.Clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_R, wrap)
	gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if d.MaxAnisotropy > 1 {
		gl.SamplerParameterf(id, glTextureMaxAnisotropy, d.MaxAnisotropy)
	}
	return gpu.Sampler(id)
}

// DeleteSampler releases a sampler object.
func DeleteSampler(s gpu.Sampler) {
	id := uint32(s)
	gl.DeleteSamplers(1, &id)
}
