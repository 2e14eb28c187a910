package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Frame is a float RGBA image with premultiplied colors
type Frame struct {
	Width, Height int
	Pix           []core.RGBA // row-major, top row first
}

// NewFrame allocates a transparent frame
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]core.RGBA, width*height)}
}

// At returns the pixel at (x, y)
func (f *Frame) At(x, y int) core.RGBA {
	return f.Pix[y*f.Width+x]
}

// Set stores the pixel at (x, y)
func (f *Frame) Set(x, y int, c core.RGBA) {
	f.Pix[y*f.Width+x] = c
}

// Straight returns the pixel at (x, y) with color divided by alpha
func (f *Frame) Straight(x, y int) core.RGBA {
	c := f.At(x, y)
	if c.A <= 0 {
		return core.RGBA{}
	}
	return core.FromRGB(c.RGB().Multiply(1/c.A), c.A).Clamp()
}

// ToNRGBA converts the frame to an 8-bit straight alpha image
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Straight(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(c.R),
				G: to8(c.G),
				B: to8(c.B),
				A: to8(c.A),
			})
		}
	}
	return img
}

func to8(v float64) uint8 {
	return uint8(core.Clamp01(v)*255 + 0.5)
}
