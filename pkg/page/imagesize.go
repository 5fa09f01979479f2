package page

import (
	"fmt"
	"image"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Register decoders for the header-only size probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/scantools/bubble-review/internal/logging"
	"github.com/scantools/bubble-review/pkg/geometry"
)

var logger = logging.New("page")

// ImageSize returns the pixel size of the page image. The first call probes
// the file and caches the answer for the life of the PageData; the cached
// value is reused even if the backing file changes afterwards.
func (p *PageData) ImageSize() (geometry.Size, error) {
	if p.imageSize != nil {
		return *p.imageSize, nil
	}

	size, err := probeImageSize(p.ImagePath)
	if err != nil {
		return geometry.Size{}, err
	}
	p.imageSize = &size
	return size, nil
}

// SetImageSize supplies a pre-computed image size, skipping the file probe.
// The first value sticks; later calls are ignored.
func (p *PageData) SetImageSize(size geometry.Size) {
	if p.imageSize == nil {
		p.imageSize = &size
	}
}

// probeImageSize reads the image header only. When the header cannot be
// decoded, the whole image is loaded as a fallback.
func probeImageSize(path string) (geometry.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to open image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err == nil {
		return geometry.Size{W: cfg.Width, H: cfg.Height}, nil
	}

	logger.Error("failed to read image header, using fallback method", "path", path, "error", err)

	img, err := loadImage(path)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	bounds := img.Bounds()
	return geometry.Size{W: bounds.Dx(), H: bounds.Dy()}, nil
}

// loadImage loads the full image for the probe fallback.
func loadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode, then the registered decoders again
	// on the raw stream
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}
