// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used by the scene to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// ImportedTexture represents a decoded image ready to be bound to a material.
// Pixels are always tightly packed RGBA (4 bytes per pixel, row-major, top row first).
type ImportedTexture struct {
	// Name is an identifier for this texture, usually the base name of the source file.
	Name string

	// Path is the file path the texture was read from (empty for generated textures).
	Path string

	// MimeType indicates the encoded image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Pixels holds the decoded RGBA pixel data.
	Pixels []byte

	// Width is the texture width in pixels.
	Width int

	// Height is the texture height in pixels.
	Height int
}

// StagingData converts the texture into the staging form consumed by the renderer.
//
// Returns:
//   - TextureStagingData: the pixel data and dimensions of the texture
func (t *ImportedTexture) StagingData() TextureStagingData {
	if t == nil {
		return TextureStagingData{}
	}
	return TextureStagingData{
		Pixels: t.Pixels,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}
}

// SolidTexture creates a 1x1 texture filled with the given RGBA color.
// Color components are clamped to [0, 1].
//
// Parameters:
//   - name: identifier for the texture
//   - color: RGBA color components
//
// Returns:
//   - *ImportedTexture: a single-pixel texture
func SolidTexture(name string, color [4]float32) *ImportedTexture {
	px := make([]byte, 4)
	for i, c := range color {
		px[i] = uint8(Clamp(c, 0, 1)*255 + 0.5)
	}
	return &ImportedTexture{
		Name:   name,
		Pixels: px,
		Width:  1,
		Height: 1,
	}
}
