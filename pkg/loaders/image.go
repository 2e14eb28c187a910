package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// LoadImage loads an environment image. EXR files keep their float values,
// every other format is scaled to [0,1].
func LoadImage(filename string) (*scene.ImageMap, error) {
	if strings.EqualFold(filepath.Ext(filename), ".exr") {
		img, err := exr.DecodeFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to decode EXR image: %w", err)
		}
		return fromEXR(img), nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image to linear float colors
func FromImage(img image.Image) *scene.ImageMap {
	bounds := img.Bounds()
	m := &scene.ImageMap{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]core.Vec3, bounds.Dx()*bounds.Dy()),
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			m.Pixels[y*m.Width+x] = core.NewVec3(
				float64(r)/0xffff,
				float64(g)/0xffff,
				float64(b)/0xffff,
			)
		}
	}
	return m
}

func fromEXR(img *exr.RGBAImage) *scene.ImageMap {
	m := &scene.ImageMap{
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
		Pixels: make([]core.Vec3, img.Rect.Dx()*img.Rect.Dy()),
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, b, _ := img.RGBA(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			m.Pixels[y*m.Width+x] = core.NewVec3(float64(r), float64(g), float64(b))
		}
	}
	return m
}
