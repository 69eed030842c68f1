package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/overlay"
	"github.com/Faultbox/pbrview/internal/engine/shader"
)

// TextOverlay blits rasterised text over the frame with alpha blending.
// It leaves depth testing disabled and blending enabled.
type TextOverlay struct {
	text    *overlay.Text
	program *shader.Program
	size    func() (int, int)

	vao     uint32
	texture gpu.Texture
	texW    int
	texH    int
}

// NewTextOverlay wraps text. size reports the current surface size.
func NewTextOverlay(text *overlay.Text, program *shader.Program, size func() (int, int)) *TextOverlay {
	o := &TextOverlay{text: text, program: program, size: size}
	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &o.vao)
	return o
}

// Text returns the rasteriser.
func (o *TextOverlay) Text() *overlay.Text { return o.text }

// Draw implements frame.Overlay.
func (o *TextOverlay) Draw() {
	w, h := o.size()
	if w <= 0 || h <= 0 {
		return
	}
	if o.text.Changed(w, h) || o.texture == 0 {
		img := o.text.Raster(w, h)
		if o.texture != 0 && o.texW == w && o.texH == h {
			UpdateTexture(o.texture, img)
		} else {
			if o.texture != 0 {
				DeleteTexture(o.texture)
			}
			o.texture = UploadTexture(img)
			o.texW, o.texH = w, h
		}
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	ps := o.program.Pixel()
	ps.SetTexture("OverlayTexture", o.texture)
	ps.Use()

	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// Delete releases GPU resources.
func (o *TextOverlay) Delete() {
	if o.texture != 0 {
		DeleteTexture(o.texture)
	}
	gl.DeleteVertexArrays(1, &o.vao)
}
