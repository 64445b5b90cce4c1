package media

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// MaxDimension bounds generated images so a bad URL can't ask for a
// gigapixel allocation.
const MaxDimension = 2000

// placeholderTone is the flat background used for generated placeholders,
// close to the site's grey card background.
var placeholderTone = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}

// Placeholder renders a flat w x h stand-in image for products that carry
// no picture of their own.
func Placeholder(w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("placeholder: invalid size %dx%d", w, h)
	}
	img := imaging.New(w, h, placeholderTone)
	// Darker border so cards do not bleed into the page background.
	border := color.NRGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
	for x := 0; x < w; x++ {
		img.Set(x, 0, border)
		img.Set(x, h-1, border)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, border)
		img.Set(w-1, y, border)
	}
	return img, nil
}

// Thumbnail center-crops and resizes src to w x h.
func Thumbnail(src image.Image, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("thumbnail: invalid size %dx%d", w, h)
	}
	return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos), nil
}

// EncodeWebP writes img as lossy webp.
func EncodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Quality: 80})
}

// Store caches generated images on disk under a media directory.
type Store struct {
	Dir string
}

// PlaceholderWebP returns the webp bytes for a w x h placeholder, generating
// and caching the file on first request.
func (s Store) PlaceholderWebP(w, h int) ([]byte, error) {
	name := fmt.Sprintf("placeholder_%dx%d.webp", w, h)
	path := filepath.Join(s.Dir, name)
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	img, err := Placeholder(w, h)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := EncodeWebP(f, img); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
