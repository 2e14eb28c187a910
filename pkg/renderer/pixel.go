package renderer

import (
	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// InsideColor marks pixels whose primary ray starts inside a solid
var InsideColor = core.NewRGBA(1, 0, 1, 1)

// raytracePixel follows one ray through up to MaxIntersections surfaces and
// composites what it sees front to back. Opaque surfaces end the ray;
// translucent ones add their surface layer, run the volume compositor and
// resume just past the exit. Whatever is left is filled with the background.
// The returned color is premultiplied and its alpha is the mean of the
// per-channel alphas.
func (t *Tracer) raytracePixel(td *TracingData, depth int) core.RGBA {
	var color, alpha core.Vec3

	for i := 0; i < max(1, t.config.MaxIntersections); i++ {
		var hit Hit
		switch t.findIntersection(td, &hit) {
		case inside:
			if i == 0 {
				return InsideColor
			}
			// resumed inside a neighbouring solid, treat the restart as its surface
			t.fillHit(td, td.TStart, &hit)
		case noIntersection:
			t.compositeBackground(td, &color, &alpha)
			return finishPixel(color, alpha)
		}

		shaded := t.shadeSurface(&hit, td.Dir, depth)
		m := t.materials.Get(hit.Sample.Material)
		if m.Opaque {
			compositeOver(&color, &alpha, shaded, core.Splat(1))
			return finishPixel(color, alpha)
		}

		compositeOver(&color, &alpha, shaded, m.SurfaceLayerAlpha)
		vol := *td
		vol.TStart = hit.T
		t.renderVolume(&vol, &color, &alpha)
		if isOpaque(alpha) {
			return finishPixel(color, alpha)
		}

		td.TCurrent = vol.TCurrent
		td.TStart = vol.TCurrent + t.config.SurfaceJump
		if td.TStart >= td.TEnd {
			break
		}
	}

	t.compositeBackground(td, &color, &alpha)
	return finishPixel(color, alpha)
}

// compositeBackground puts the background behind the accumulated color
func (t *Tracer) compositeBackground(td *TracingData, color, alpha *core.Vec3) {
	bg := t.background.ColorAt(td.Dir)
	compositeOver(color, alpha, bg.RGB(), core.Splat(bg.A))
}

func finishPixel(color, alpha core.Vec3) core.RGBA {
	return core.FromRGB(color, alpha.Average()).Clamp()
}
