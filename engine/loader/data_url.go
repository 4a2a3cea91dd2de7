package loader

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL packs raw bytes into a base64 data URL.
//
// Parameters:
//   - mimeType: the media type placed in the URL header
//   - data: the raw bytes to encode
//
// Returns:
//   - string: a URL of the form data:<mimeType>;base64,<payload>
func EncodeDataURL(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// ParseDataURL decodes a base64 data URL into raw bytes and extracts the MIME type.
// Only base64 payloads are accepted since the loader always produces them.
//
// Parameters:
//   - url: the data URL to parse
//
// Returns:
//   - []byte: the decoded payload
//   - string: the media type from the URL header (may be empty)
//   - error: ErrUnsupportedDataURL if the URL is malformed, or a base64 error
func ParseDataURL(url string) ([]byte, string, error) {
	// Format: data:[<mediatype>][;base64],<data>
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data: scheme", ErrUnsupportedDataURL)
	}

	header, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: no comma found", ErrUnsupportedDataURL)
	}

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: payload is not base64", ErrUnsupportedDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}

	return data, mimeType, nil
}
