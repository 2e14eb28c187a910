package renderer

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/material"
)

// specularExponentScale converts material shininess into a Phong exponent
const specularExponentScale = 128

// shadeSurface computes the color of a surface hit seen along eyeDir. With
// depth left and a reflective material the mirror ray is traced and its
// color takes the place of the local shading, or is blended by albedo when
// BlendReflections is set.
func (t *Tracer) shadeSurface(hit *Hit, eyeDir core.Vec3, depth int) core.Vec3 {
	surf := t.materials.Resolve(&hit.Sample, t.config.DraftMode)
	n := hit.Normal

	if depth > 0 && surf.IsReflective() {
		if reflected, ok := t.traceReflection(hit, eyeDir, depth); ok {
			if !t.config.BlendReflections {
				return reflected
			}
			local := t.phong(&surf, hit.BoxPosition, n, eyeDir)
			albedo := surf.Albedo.Clamp(0, 1)
			return local.MultiplyVec(core.Splat(1).Subtract(albedo)).Add(reflected.MultiplyVec(albedo))
		}
	}
	return t.phong(&surf, hit.BoxPosition, n, eyeDir)
}

// phong sums the emissive, ambient, diffuse and specular terms over all
// lights, clamping to [0,1] after each light
func (t *Tracer) phong(surf *material.Surface, p, n, eyeDir core.Vec3) core.Vec3 {
	color := surf.Emissive.Add(surf.Diffuse.Multiply(surf.AmbientIntensity))

	for i := range t.lights {
		l := &t.lights[i]
		toLight := l.Position.Subtract(p).Normalize()

		color = color.Add(l.Color.MultiplyVec(surf.Diffuse).Multiply(l.AmbientIntensity))

		lit := toLight.Dot(n)
		if lit > 0 {
			shadow := t.shadow(p, n, l)
			color = color.Add(l.Color.MultiplyVec(surf.Diffuse).Multiply(shadow * lit * l.Intensity))

			if surf.Shininess > 0 {
				r := toLight.Negate().Reflect(n)
				highlight := math.Pow(math.Max(r.Dot(eyeDir.Negate()), 0), surf.Shininess*specularExponentScale)
				color = color.Add(surf.Specular.MultiplyVec(l.Color).Multiply(highlight * l.Intensity * shadow))
			}
		}

		color = color.Clamp(0, 1)
	}
	return color.Clamp(0, 1)
}

// traceReflection follows the mirror ray leaving a hit. The environment is
// always seen at full alpha in a mirror, so whatever the reflected ray leaves
// uncovered is filled with the background color even when the background
// itself renders transparent.
func (t *Tracer) traceReflection(hit *Hit, eyeDir core.Vec3, depth int) (core.Vec3, bool) {
	dir := eyeDir.Reflect(hit.Normal).Normalize()
	origin := hit.BoxPosition.Add(hit.Normal.Multiply(t.config.SurfaceJump))

	td, ok := t.newTracingData(origin, dir)
	if !ok {
		return core.Vec3{}, false
	}
	px := t.raytracePixel(&td, depth-1)
	color := px.RGB()
	if px.A < 1 {
		bg := t.background.ColorAt(td.Dir)
		color = color.Add(bg.RGB().Multiply(1 - px.A))
	}
	return color.Clamp(0, 1), true
}
