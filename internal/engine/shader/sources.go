package shader

import (
	_ "embed"
	"strings"
)

// includeLights marks where the shared lighting block is spliced in.
const includeLights = "//#include lights.glsl"

// MeshVertexShader transforms lit geometry into clip space.
//
//go:embed glsl/mesh.vert
var MeshVertexShader string

//go:embed glsl/lights.glsl
var lightsBlock string

//go:embed glsl/pbr.frag
var pbrFragment string

//go:embed glsl/basic.frag
var basicFragment string

// SolidFragmentShader outputs a single uniform color.
//
//go:embed glsl/solid.frag
var SolidFragmentShader string

// SkyVertexShader and SkyFragmentShader draw the environment cube.
//
//go:embed glsl/sky.vert
var SkyVertexShader string

//go:embed glsl/sky.frag
var SkyFragmentShader string

// OverlayVertexShader and OverlayFragmentShader blit the text overlay.
//
//go:embed glsl/overlay.vert
var OverlayVertexShader string

//go:embed glsl/overlay.frag
var OverlayFragmentShader string

// PBRFragmentShader is the Cook-Torrance fragment shader with IBL.
var PBRFragmentShader = withLights(pbrFragment)

// BasicFragmentShader is the Blinn-Phong fragment shader without IBL.
var BasicFragmentShader = withLights(basicFragment)

func withLights(src string) string {
	return strings.Replace(src, includeLights, lightsBlock, 1)
}

// Sampler object names understood by the bundled programs.
const (
	BasicSampler = "BasicSampler"
	ClampSampler = "ClampSampler"
)

// Built-in program descriptions. Sampler groups map a sampler object name to
// the texture uniforms it filters.
var (
	PBR = Source{
		Name:     "pbr",
		Vertex:   MeshVertexShader,
		Fragment: PBRFragmentShader,
		Samplers: map[string][]string{
			BasicSampler: {"Albedo", "NormalMap", "RoughnessMap", "MetalMap"},
			ClampSampler: {"BrdfLookupMap", "IrradianceIBLMap", "SpecularIBLMap"},
		},
	}
	Basic = Source{
		Name:     "basic",
		Vertex:   MeshVertexShader,
		Fragment: BasicFragmentShader,
		Samplers: map[string][]string{
			BasicSampler: {"Albedo", "NormalMap", "RoughnessMap"},
		},
	}
	Solid = Source{
		Name:     "solid",
		Vertex:   MeshVertexShader,
		Fragment: SolidFragmentShader,
	}
	Sky = Source{
		Name:     "sky",
		Vertex:   SkyVertexShader,
		Fragment: SkyFragmentShader,
		Samplers: map[string][]string{
			ClampSampler: {"SkyTexture"},
		},
	}
	Overlay = Source{
		Name:     "overlay",
		Vertex:   OverlayVertexShader,
		Fragment: OverlayFragmentShader,
	}
)

// Builtins lists the programs a scene can reference by name.
var Builtins = []Source{PBR, Basic, Solid, Sky, Overlay}
