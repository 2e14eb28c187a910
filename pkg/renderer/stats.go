package renderer

import (
	"time"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Samples per pixel targeted by the pass
	MinSamples     int           // Minimum samples taken per pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	Duration       time.Duration // Wall time of the pass
}

// PixelStats accumulates the supersamples of a single pixel
type PixelStats struct {
	ColorAccum  core.RGBA // premultiplied color and alpha sums
	SampleCount int
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(c core.RGBA) {
	ps.ColorAccum = ps.ColorAccum.Add(c)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.RGBA {
	if ps.SampleCount == 0 {
		return core.RGBA{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}
