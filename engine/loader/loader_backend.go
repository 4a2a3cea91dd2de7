package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

// loaderBackend defines the interface for turning encoded image bytes into textures.
// Concrete implementations (e.g., imageLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode reads an encoded image and converts it to a tightly packed RGBA texture.
	//
	// Parameters:
	//   - r: the reader providing encoded image data
	//   - maxDimension: the largest width or height kept; larger images are downscaled (0 disables)
	//
	// Returns:
	//   - *common.ImportedTexture: the decoded texture with Pixels, Width, Height and MimeType set
	//   - error: error if the data is not a supported image
	Decode(r io.Reader, maxDimension int) (*common.ImportedTexture, error)
}
