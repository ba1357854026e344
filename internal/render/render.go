// Package render decodes image files and scales them to fit a display bound.
package render

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"imgview/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Bounds is the largest size a rendered picture may occupy.
type Bounds struct {
	Width  int
	Height int
}

// DefaultBounds is the 800x600 display area.
var DefaultBounds = Bounds{Width: 800, Height: 600}

// Picture is a decoded image ready for display.
type Picture struct {
	Path     string
	Format   string
	Original image.Point // size before scaling
	Image    image.Image
}

// Scaled reports whether the picture was shrunk to fit.
func (p *Picture) Scaled() bool {
	return p.Image.Bounds().Size() != p.Original
}

// Decode opens and decodes the image at path.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.NewImageError("failed to open image", path, errors.ImageOpenFailed, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", errors.NewImageError(decodeFailure(f), path, errors.ImageDecodeFailed, err)
	}
	return img, format, nil
}

// decodeFailure names what the file actually holds, when that can be told.
func decodeFailure(f *os.File) string {
	const msg = "failed to decode image"
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return msg
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil || mt.Is("application/octet-stream") {
		return msg
	}
	return msg + " (content is " + mt.String() + ")"
}

// FitSize returns the size a w x h image is shown at inside b. Images that
// already fit are left alone; larger ones shrink by a single ratio so that
// neither side exceeds the bound.
func FitSize(w, h int, b Bounds) (int, int) {
	if w <= b.Width && h <= b.Height {
		return w, h
	}
	rw := float64(b.Width) / float64(w)
	rh := float64(b.Height) / float64(h)
	// the limiting side lands exactly on the bound
	switch {
	case rw == rh:
		return b.Width, b.Height
	case rw < rh:
		return b.Width, max(int(float64(h)*rw), 1)
	default:
		return max(int(float64(w)*rh), 1), b.Height
	}
}

// Fit scales img down to fit b with Catmull-Rom resampling. It never
// upscales; an image that already fits is returned as is.
func Fit(img image.Image, b Bounds) image.Image {
	size := img.Bounds().Size()
	w, h := FitSize(size.X, size.Y, b)
	if w == size.X && h == size.Y {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Load decodes path and fits it into b.
func Load(path string, b Bounds) (*Picture, error) {
	img, format, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return &Picture{
		Path:     path,
		Format:   format,
		Original: img.Bounds().Size(),
		Image:    Fit(img, b),
	}, nil
}
