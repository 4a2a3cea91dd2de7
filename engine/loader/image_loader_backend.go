package loader

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageLoaderBackend decodes any format registered with the image package.
type imageLoaderBackend struct{}

var _ loaderBackend = &imageLoaderBackend{}

// newImageLoaderBackend creates a backend for PNG, JPEG, GIF, WebP, BMP and TIFF images.
//
// Returns:
//   - *imageLoaderBackend: the backend
func newImageLoaderBackend() *imageLoaderBackend {
	return &imageLoaderBackend{}
}

func (b *imageLoaderBackend) Decode(r io.Reader, maxDimension int) (*common.ImportedTexture, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has zero size", ErrNoImage)
	}

	rgba := clone.AsRGBA(img)
	if w, h, scaled := fitDimensions(bounds.Dx(), bounds.Dy(), maxDimension); scaled {
		rgba = transform.Resize(rgba, w, h, transform.Linear)
	}

	return &common.ImportedTexture{
		MimeType: "image/" + format,
		Pixels:   rgba.Pix,
		Width:    rgba.Rect.Dx(),
		Height:   rgba.Rect.Dy(),
	}, nil
}

// fitDimensions shrinks (w, h) so neither side exceeds limit, keeping the aspect ratio.
//
// Parameters:
//   - w: source width
//   - h: source height
//   - limit: maximum width or height (0 or less disables scaling)
//
// Returns:
//   - int: target width
//   - int: target height
//   - bool: true if the image must be scaled
func fitDimensions(w, h, limit int) (int, int, bool) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h, false
	}
	if w >= h {
		return limit, max(1, h*limit/w), true
	}
	return max(1, w*limit/h), limit, true
}
