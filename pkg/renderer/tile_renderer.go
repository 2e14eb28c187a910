package renderer

import (
	"image"
)

// TileRenderer turns pixels into tracer samples for one image size
type TileRenderer struct {
	tracer        *Tracer
	width, height int
	grid          int // supersampling grid size, grid*grid samples per pixel
}

// NewTileRenderer creates a tile renderer for an image of the given size
func NewTileRenderer(tracer *Tracer, width, height, grid int) *TileRenderer {
	return &TileRenderer{
		tracer: tracer,
		width:  width,
		height: height,
		grid:   max(1, grid),
	}
}

// MaxSamples is the number of samples a fully converged pixel holds
func (tr *TileRenderer) MaxSamples() int {
	return tr.grid * tr.grid
}

// RenderTileBounds tops up every pixel in bounds to targetSamples samples
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	targetSamples = min(targetSamples, tr.MaxSamples())
	stats := RenderStats{MaxSamples: targetSamples, MinSamples: targetSamples}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			taken := 0
			for ps.SampleCount < targetSamples {
				u, v := tr.imageCoords(x, y, ps.SampleCount)
				ps.AddSample(tr.tracer.Sample(u, v))
				taken++
			}

			stats.TotalPixels++
			stats.TotalSamples += taken
			stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, ps.SampleCount)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// imageCoords maps sample k of pixel (x, y) to aspect corrected image
// coordinates. Samples sit at the cell centers of a grid x grid
// stratification of the pixel.
func (tr *TileRenderer) imageCoords(x, y, k int) (u, v float64) {
	n := float64(tr.grid)
	ox := (float64(k%tr.grid) + 0.5) / n
	oy := (float64(k/tr.grid) + 0.5) / n

	aspect := float64(tr.width) / float64(tr.height)
	u = (2*(float64(x)+ox)/float64(tr.width) - 1) * aspect
	v = 1 - 2*(float64(y)+oy)/float64(tr.height)
	return u, v
}

// PixelCenter returns the image coordinates of the center of pixel (x, y)
func PixelCenter(x, y, width, height int) (u, v float64) {
	return NewTileRenderer(nil, width, height, 1).imageCoords(x, y, 0)
}
