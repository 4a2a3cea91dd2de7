package material

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// material is the implementation of the Material interface.
type material struct {
	name           string
	baseColor      [4]float32
	diffuseTexture *common.ImportedTexture
	pipelineKey    string
	version        uint64
	dirty          bool
}

// Material defines the interface for a render material holding a base color and at most
// one diffuse texture.
//
// Binding a texture replaces the previous one entirely and raises the dirty flag. The
// renderer reads the flag once per frame through ConsumeDirty, which clears it, and
// re-uploads the texture when it was set. Materials are not safe for concurrent use;
// all mutation happens on the render loop thread.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA color multiplied with the diffuse texture.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// DiffuseTexture retrieves the bound diffuse texture, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// SetDiffuseTexture binds tex as the diffuse texture, replacing any previous binding,
	// and marks the material dirty. Passing nil unbinds the texture.
	//
	// Parameters:
	//   - tex: the texture to bind, or nil
	SetDiffuseTexture(tex *common.ImportedTexture)

	// Dirty reports whether the texture changed since the last ConsumeDirty.
	//
	// Returns:
	//   - bool: true if a re-upload is pending
	Dirty() bool

	// ConsumeDirty returns the dirty flag and clears it.
	//
	// Returns:
	//   - bool: true if the texture changed since the previous call
	ConsumeDirty() bool

	// Version returns a counter incremented on every texture change.
	//
	// Returns:
	//   - uint64: the texture version
	Version() uint64

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// A material created with a diffuse texture starts dirty so the first frame uploads it.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	m.dirty = m.diffuseTexture != nil
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) SetDiffuseTexture(tex *common.ImportedTexture) {
	m.diffuseTexture = tex
	m.version++
	m.dirty = true
}

func (m *material) Dirty() bool {
	return m.dirty
}

func (m *material) ConsumeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

func (m *material) Version() uint64 {
	return m.version
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}
