package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/pbrview/internal/engine/framebuffer"
)

// Viewport shows the offscreen scene as a full-window background behind
// the panels. It takes no input, so drags on it reach the camera.
type Viewport struct {
	target *framebuffer.Framebuffer
}

// NewViewport wraps target.
func NewViewport(target *framebuffer.Framebuffer) *Viewport {
	return &Viewport{target: target}
}

// Draw submits the background window. Call it before any other window.
func (v *Viewport) Draw() {
	size := imgui.CurrentIO().DisplaySize()
	imgui.SetNextWindowPos(imgui.NewVec2(0, 0))
	imgui.SetNextWindowSize(size)
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoInputs
	if imgui.BeginV("##viewport", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(v.target.Texture()))
		// GL rows are bottom-up, so V is flipped.
		imgui.ImageWithBgV(
			*texRef,
			size,
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0),
			imgui.NewVec4(0, 0, 0, 1),
			imgui.NewVec4(1, 1, 1, 1),
		)
	}
	imgui.End()
	imgui.PopStyleVar()
}
