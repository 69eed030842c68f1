package lighting

import (
	"strconv"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Uniform names of the frame-scope lighting block.
const (
	UniformLights     = "lights"
	UniformLightCount = "lightCount"
)

// fieldNames caches "lights[i].Field" strings so uploads do not allocate.
var fieldNames = func() [MaxLights][7]string {
	var names [MaxLights][7]string
	for i := range names {
		prefix := UniformLights + "[" + strconv.Itoa(i) + "]."
		names[i] = [7]string{
			prefix + "Type",
			prefix + "Direction",
			prefix + "Range",
			prefix + "Position",
			prefix + "Intensity",
			prefix + "Color",
			prefix + "SpotFalloff",
		}
	}
	return names
}()

// FieldName returns the uniform name of field f of light i, e.g. "lights[3].Color".
func FieldName(i int, field string) string {
	return UniformLights + "[" + strconv.Itoa(i) + "]." + field
}

// Upload writes the light array (at most MaxLights entries) and the light
// count into stage. It does not flush.
func Upload(stage gpu.Stage, lights []Light) {
	n := len(lights)
	if n > MaxLights {
		n = MaxLights
	}
	for i := 0; i < n; i++ {
		l := lights[i]
		f := &fieldNames[i]
		stage.SetInt(f[0], int32(l.Type))
		stage.SetFloat3(f[1], l.Direction)
		stage.SetFloat(f[2], l.Range)
		stage.SetFloat3(f[3], l.Position)
		stage.SetFloat(f[4], l.Intensity)
		stage.SetFloat3(f[5], l.Color)
		stage.SetFloat(f[6], l.SpotFalloff)
	}
	stage.SetInt(UniformLightCount, int32(n))
}
