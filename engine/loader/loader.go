package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

// LoaderBackendType identifies the image decoding backend to use.
type LoaderBackendType int

const (
	// BackendTypeImage selects the image package backend (PNG, JPEG, GIF, WebP, BMP, TIFF).
	BackendTypeImage LoaderBackendType = iota
)

// DefaultMaxDimension is the largest texture width or height kept without downscaling.
// It matches the 2D texture limit most GPUs report.
const DefaultMaxDimension = 8192

var (
	// ErrNoImage is returned when a selection carries no usable image.
	ErrNoImage = errors.New("no image")

	// ErrUnsupportedDataURL is returned for data URLs the loader cannot parse.
	ErrUnsupportedDataURL = errors.New("unsupported data URL")
)

// loader is the implementation of the Loader interface.
type loader struct {
	maxDimension int
	backend      loaderBackend
}

// Loader defines the public-facing interface for turning a local image file into a texture.
// Loading happens in two steps: the file is read whole and encoded as a data URL, then the
// data URL is decoded into RGBA pixels. Both steps honour context cancellation between stages.
type Loader interface {
	// ReadDataURL reads the full contents of the file at path and returns them as a
	// base64 data URL. The media type comes from the file extension, falling back to
	// content sniffing.
	//
	// Parameters:
	//   - ctx: cancels the read before or after I/O
	//   - path: the file path to read
	//
	// Returns:
	//   - string: the data URL
	//   - error: error if the path is empty, the file cannot be read, or ctx is done
	ReadDataURL(ctx context.Context, path string) (string, error)

	// DecodeDataURL decodes a data URL produced by ReadDataURL into a texture.
	//
	// Parameters:
	//   - ctx: cancels the decode before it starts
	//   - url: the data URL
	//   - name: identifier stored on the texture
	//
	// Returns:
	//   - *common.ImportedTexture: the decoded texture
	//   - error: error if the URL or its image payload is invalid, or ctx is done
	DecodeDataURL(ctx context.Context, url, name string) (*common.ImportedTexture, error)

	// Load runs ReadDataURL followed by DecodeDataURL and records the source path on the texture.
	//
	// Parameters:
	//   - ctx: cancels the load between stages
	//   - path: the file path to load
	//
	// Returns:
	//   - *common.ImportedTexture: the decoded texture
	//   - error: error if either stage fails
	Load(ctx context.Context, path string) (*common.ImportedTexture, error)

	// MaxDimension returns the largest texture side kept without downscaling.
	//
	// Returns:
	//   - int: the maximum dimension in pixels (0 means unlimited)
	MaxDimension() int
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeImage)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		maxDimension: DefaultMaxDimension,
	}

	switch backendType {
	case BackendTypeImage:
		l.backend = newImageLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) ReadDataURL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return EncodeDataURL(detectMimeType(path, data), data), nil
}

func (l *loader) DecodeDataURL(ctx context.Context, url, name string) (*common.ImportedTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, mimeType, err := ParseDataURL(url)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrNoImage)
	}

	tex, err := l.backend.Decode(bytes.NewReader(data), l.maxDimension)
	if err != nil {
		return nil, err
	}
	tex.Name = name
	if mimeType != "" {
		tex.MimeType = mimeType
	}
	return tex, nil
}

func (l *loader) Load(ctx context.Context, path string) (*common.ImportedTexture, error) {
	url, err := l.ReadDataURL(ctx, path)
	if err != nil {
		return nil, err
	}

	tex, err := l.DecodeDataURL(ctx, url, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	tex.Path = path
	return tex, nil
}

func (l *loader) MaxDimension() int {
	return l.maxDimension
}

// detectMimeType resolves the media type of a file from its extension, then from its contents.
func detectMimeType(path string, data []byte) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		t = http.DetectContentType(data)
	}
	mediaType, _, _ := strings.Cut(t, ";")
	return mediaType
}
