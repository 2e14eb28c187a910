package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// BackgroundMode selects how rays that leave the scene are colored
type BackgroundMode int

const (
	BackgroundSingleColor BackgroundMode = iota
	BackgroundGradient
	BackgroundImage
)

var backgroundModeNames = []string{"single_color", "gradient", "image"}

// String implements fmt.Stringer
func (m BackgroundMode) String() string {
	if m < 0 || int(m) >= len(backgroundModeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return backgroundModeNames[m]
}

// ParseBackgroundMode accepts the mode names case-insensitively
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	if s == "" {
		return BackgroundGradient, nil
	}
	for i, name := range backgroundModeNames {
		if strings.EqualFold(strings.ReplaceAll(s, "-", "_"), name) {
			return BackgroundMode(i), nil
		}
	}
	return BackgroundGradient, fmt.Errorf("unknown background mode %q", s)
}

// ImageMap is an equirectangular environment image with linear colors
type ImageMap struct {
	Width, Height int
	Pixels        []core.Vec3
}

// Lookup returns the color seen in a world direction
func (m *ImageMap) Lookup(dir core.Vec3) core.Vec3 {
	if m == nil || m.Width == 0 || m.Height == 0 {
		return core.Vec3{}
	}
	d := dir.Normalize()
	u := 0.5 + math.Atan2(d.X, -d.Z)/(2*math.Pi)
	v := math.Acos(max(-1, min(1, d.Y))) / math.Pi
	x := min(m.Width-1, max(0, int(u*float64(m.Width))))
	y := min(m.Height-1, max(0, int(v*float64(m.Height))))
	return m.Pixels[y*m.Width+x]
}

// Background describes the environment behind the scene
type Background struct {
	Mode        BackgroundMode
	Color       core.Vec3 // single color mode
	GroundColor core.Vec3
	SkyColor    core.Vec3
	SmoothStart float64
	SmoothEnd   float64
	Image       *ImageMap
	Transparent bool // leave background pixels with zero alpha
}

// DefaultBackground is a soft light gray ground-to-sky gradient
func DefaultBackground() Background {
	return Background{
		Mode:        BackgroundGradient,
		Color:       core.NewVec3(1, 1, 1),
		GroundColor: core.NewVec3(225.0/255, 227.0/255, 228.0/255),
		SkyColor:    core.NewVec3(245.0/255, 247.0/255, 248.0/255),
		SmoothStart: 0.4,
		SmoothEnd:   0.5,
	}
}

// SolidBackground returns a single color background
func SolidBackground(c core.Vec3) Background {
	b := DefaultBackground()
	b.Mode = BackgroundSingleColor
	b.Color = c
	b.GroundColor = c
	b.SkyColor = c
	return b
}

// ColorAt returns the background color for a ray direction
func (b *Background) ColorAt(dir core.Vec3) core.RGBA {
	alpha := 1.0
	if b.Transparent {
		alpha = 0
	}

	switch b.Mode {
	case BackgroundGradient:
		t := 0.5 * (dir.Normalize().Y + 1)
		s := core.SmoothStep(b.SmoothStart, b.SmoothEnd, t)
		return core.FromRGB(b.GroundColor.Lerp(b.SkyColor, s), alpha)
	case BackgroundImage:
		if b.Image != nil {
			return core.FromRGB(b.Image.Lookup(dir), alpha)
		}
	}
	return core.FromRGB(b.Color, alpha)
}
