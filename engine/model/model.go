package model

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	boundingRadius float32
	vertexData     []byte
	indexData      []byte
}

// Model defines the interface for an immutable CPU-side mesh.
// A Model holds the vertex and index data the scene uploads into GPU buffers once
// at startup. Geometry never changes after construction.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns the mesh vertices.
	//
	// Returns:
	//   - []GPUVertex: the vertex slice
	Vertices() []GPUVertex

	// Indices returns the triangle indices.
	//
	// Returns:
	//   - []uint32: the index slice
	Indices() []uint32

	// VertexData returns the vertex data serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the index data serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// VertexCount returns the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Vertex and index byte buffers are derived from the geometry once here.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}

	if len(m.vertices) > 0 {
		m.vertexData = make([]byte, 0, len(m.vertices)*m.vertices[0].Size())
		for i := range m.vertices {
			m.vertexData = append(m.vertexData, m.vertices[i].Marshal()...)
		}
	}
	m.indexData = common.SliceToBytes(m.indices)
	if m.boundingRadius == 0 {
		m.boundingRadius = ComputeBoundingRadius(m.vertices)
	}
	return m
}

// NewSphere creates the inward-facing panorama sphere model.
//
// Parameters:
//   - radius: sphere radius in world units
//   - widthSegments: number of horizontal segments
//   - heightSegments: number of vertical segments
//   - options: additional ModelBuilderOption functions, applied after the geometry
//
// Returns:
//   - Model: the sphere model
func NewSphere(radius float32, widthSegments, heightSegments int, options ...ModelBuilderOption) Model {
	vertices, indices := BuildSphere(radius, widthSegments, heightSegments)
	opts := append([]ModelBuilderOption{
		WithName("panorama_sphere"),
		WithGeometry(vertices, indices),
		WithBoundingRadius(radius),
	}, options...)
	return NewModel(opts...)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) VertexCount() int {
	return len(m.vertices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}
