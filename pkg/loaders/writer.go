package loaders

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/transform"
	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-implicit-raytracer/pkg/renderer"
)

// Format is an output image format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatEXR  Format = "exr"
)

// ParseFormat accepts a format name or a file extension with or without the dot
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "exr":
		return FormatEXR, nil
	}
	return "", fmt.Errorf("%w: image format %q", ErrUnsupportedFormat, s)
}

// EncodeOptions control how a frame is written
type EncodeOptions struct {
	Gamma       float64 // display gamma for 8-bit formats, 0 or 1 writes values unchanged
	JPEGQuality int
}

// SaveFrame writes a frame to path, picking the format from the extension
func SaveFrame(path string, f *renderer.Frame, opts EncodeOptions) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if format == FormatEXR {
		return exr.EncodeFile(path, toEXR(f))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodeFrame(out, f, format, opts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// EncodeFrame writes a frame to w. EXR output keeps premultiplied float
// values; the other formats get straight 8-bit color.
func EncodeFrame(w io.Writer, f *renderer.Frame, format Format, opts EncodeOptions) error {
	if format == FormatEXR {
		return encodeEXR(w, f)
	}

	img := DisplayImage(f, opts.Gamma)
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		q := opts.JPEGQuality
		if q <= 0 {
			q = jpeg.DefaultQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: image format %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// DisplayImage converts a frame to an 8-bit image with optional gamma
func DisplayImage(f *renderer.Frame, gamma float64) image.Image {
	img := f.ToNRGBA()
	if gamma <= 0 || gamma == 1 {
		return img
	}
	return adjust.Gamma(img, gamma)
}

// Thumbnail scales img so that its longer side is at most size pixels
func Thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*size/b.Dx())
	} else {
		w = max(1, b.Dx()*size/b.Dy())
	}
	return transform.Resize(img, w, h, transform.CatmullRom)
}

func toEXR(f *renderer.Frame) *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			img.SetRGBA(x, y, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		}
	}
	return img
}

// encodeEXR needs a seekable writer, so plain writers go through a temp file
func encodeEXR(w io.Writer, f *renderer.Frame) error {
	img := toEXR(f)
	if ws, ok := w.(io.WriteSeeker); ok {
		return exr.Encode(ws, img)
	}

	tmp, err := os.CreateTemp("", "frame-*.exr")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := exr.Encode(tmp, img); err != nil {
		return fmt.Errorf("failed to encode exr: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err = io.Copy(w, tmp)
	return err
}
