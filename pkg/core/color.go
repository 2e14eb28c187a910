package core

// RGBA is a float color with components in [0,1]. Tracer samples and frame
// pixels are premultiplied by alpha; background colors are straight.
type RGBA struct {
	R, G, B, A float64
}

// NewRGBA creates a new RGBA color
func NewRGBA(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// RGB returns the color components as a Vec3
func (c RGBA) RGB() Vec3 {
	return Vec3{c.R, c.G, c.B}
}

// FromRGB builds an RGBA from a color vector and alpha
func FromRGB(rgb Vec3, alpha float64) RGBA {
	return RGBA{R: rgb.X, G: rgb.Y, B: rgb.Z, A: alpha}
}

// Clamp returns the color with every channel clamped to [0,1]
func (c RGBA) Clamp() RGBA {
	return RGBA{Clamp01(c.R), Clamp01(c.G), Clamp01(c.B), Clamp01(c.A)}
}

// Add returns the channel-wise sum of two colors
func (c RGBA) Add(other RGBA) RGBA {
	return RGBA{c.R + other.R, c.G + other.G, c.B + other.B, c.A + other.A}
}

// Multiply scales every channel, alpha included
func (c RGBA) Multiply(s float64) RGBA {
	return RGBA{c.R * s, c.G * s, c.B * s, c.A * s}
}
