package renderer

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
)

// alphaOpaque is the per-channel alpha at which compositing stops
const alphaOpaque = 1 - 1e-6

// renderVolume marches through a translucent solid from td.TStart in steps of
// one layer, compositing each layer over color and alpha. When the ray leaves
// the solid the exit parameter is interpolated into td.TCurrent. The march
// also ends at td.TEnd, once every channel is opaque, or after VolumeSteps.
func (t *Tracer) renderVolume(td *TracingData, color, alpha *core.Vec3) {
	var s field.Sample

	tc := td.TStart
	dPrev := t.fieldAt(td.At(tc), &s)
	td.TCurrent = tc

	for i := 0; i < t.config.VolumeSteps; i++ {
		tn := tc + t.layerStep
		if tn >= td.TEnd {
			td.TCurrent = td.TEnd
			return
		}

		d := t.fieldAt(td.At(tn), &s)
		if math.IsNaN(d) {
			td.TCurrent = tn
			return
		}
		if d >= 0 {
			f := 0.0
			if dPrev < 0 && dPrev != d {
				f = core.Clamp01(dPrev / (dPrev - d))
			}
			td.TCurrent = tc + t.layerStep*f
			return
		}

		m := t.materials.Get(s.Material)
		diffuse := m.Diffuse
		if !t.config.DraftMode {
			diffuse = t.materials.Resolve(&s, false).Diffuse
		}
		compositeOver(color, alpha, diffuse, m.LayerAlpha)

		tc, dPrev = tn, d
		td.TCurrent = tc
		if isOpaque(*alpha) {
			return
		}
	}
}

// compositeOver adds a layer of color c with per-channel alpha a behind what
// has been accumulated so far
func compositeOver(color, alpha *core.Vec3, c, a core.Vec3) {
	remaining := core.Splat(1).Subtract(*alpha)
	*color = color.Add(c.MultiplyVec(a).MultiplyVec(remaining))
	*alpha = alpha.Add(a.MultiplyVec(remaining))
}

func isOpaque(alpha core.Vec3) bool {
	return alpha.X >= alphaOpaque && alpha.Y >= alphaOpaque && alpha.Z >= alphaOpaque
}
