package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors []wgpu.BindGroupLayoutDescriptor
	declarations               []Annotation
}

// Shader is a pre-processed and parsed WGSL render module holding one @vertex and one
// @fragment entry point. Everything a render pipeline needs to describe its layout is
// derived from the source: vertex buffer layouts from the vertex input struct, bind group
// layouts from the @group/@binding declarations, and the scene-facing group and binding
// indices from @oxy:provider annotations.
type Shader interface {
	// Key returns the shader's unique identifier.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// VertexEntryPoint returns the @vertex function name.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the @fragment function name.
	FragmentEntryPoint() string

	// VertexLayouts returns one vertex buffer layout per vertex input struct, in slot order.
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the layout descriptor for a @group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty one for an unknown group
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every layout descriptor indexed by @group.
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// Declarations returns the group and provider annotations found in the source.
	Declarations() []Annotation

	// ProviderGroup returns the @group index filled by a scene resource provider.
	//
	// Parameters:
	//   - identity: the provider identity, e.g. AnnotationArgCamera
	//
	// Returns:
	//   - int: the group index
	//   - bool: false if no binding names the provider
	ProviderGroup(identity AnnotationArg) (int, bool)

	// RoleBinding returns where a provider's binding with the given role lives.
	//
	// Parameters:
	//   - identity: the provider identity, e.g. AnnotationArgMaterial
	//   - role: the binding role, e.g. AnnotationArgDiffuseTexture
	//
	// Returns:
	//   - group: the group index
	//   - binding: the binding index
	//   - ok: false if no binding carries that role
	RoleBinding(identity, role AnnotationArg) (group, binding int, ok bool)
}

var _ Shader = &shader{}

// NewShader pre-processes and parses a WGSL render module.
//
// Parameters:
//   - key: a unique identifier for the shader, used for labels
//   - source: the annotated WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if an annotation is malformed, an entry point is missing, or the
//     declared bindings cannot be turned into layouts
func NewShader(key, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s := &shader{
		key:          key,
		source:       processed,
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}

	cleaned := stripComments(processed)
	s.vertexEntryPoint = parseEntryPoint(cleaned, wgpu.ShaderStageVertex)
	s.fragmentEntryPoint = parseEntryPoint(cleaned, wgpu.ShaderStageFragment)
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: needs both a @vertex and a @fragment entry point", key)
	}

	if s.vertexLayouts, err = parseVertexLayouts(cleaned); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	groups, err := parseBindGroupLayouts(cleaned, s.vertexEntryPoint, s.fragmentEntryPoint)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.bindGroupLayoutDescriptors = make([]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g := range s.bindGroupLayoutDescriptors {
		desc, ok := groups[g]
		if !ok {
			return nil, fmt.Errorf("shader %s: @group(%d) is skipped", key, g)
		}
		desc.Label = fmt.Sprintf("%s Group %d Layout", key, g)
		s.bindGroupLayoutDescriptors[g] = desc
	}

	if err := s.checkDeclarations(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// MustNewShader is like NewShader but panics on error. It is meant for embedded sources.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the annotated WGSL source
//
// Returns:
//   - Shader: the parsed shader
func MustNewShader(key, source string) Shader {
	s, err := NewShader(key, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	if group < 0 || group >= len(s.bindGroupLayoutDescriptors) {
		return wgpu.BindGroupLayoutDescriptor{}
	}
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) ProviderGroup(identity AnnotationArg) (int, bool) {
	for _, a := range s.declarations {
		if a.Type == AnnotationTypeProvider && a.Args[0] == identity {
			return *a.Group, true
		}
	}
	return -1, false
}

func (s *shader) RoleBinding(identity, role AnnotationArg) (group, binding int, ok bool) {
	for _, a := range s.declarations {
		if a.Type == AnnotationTypeProvider && len(a.Args) == 2 && a.Args[0] == identity && a.Args[1] == role {
			return *a.Group, *a.Binding, true
		}
	}
	return -1, -1, false
}

// checkDeclarations verifies that every annotated binding exists and that a group is not
// claimed by two providers.
func (s *shader) checkDeclarations() error {
	owners := make(map[int]AnnotationArg)
	var errs []error
	for _, a := range s.declarations {
		if !s.hasBinding(*a.Group, *a.Binding) {
			errs = append(errs, fmt.Errorf("line %d: @group(%d) @binding(%d) is not declared", a.Line, *a.Group, *a.Binding))
			continue
		}
		if a.Type != AnnotationTypeProvider {
			continue
		}
		if owner, ok := owners[*a.Group]; ok && owner != a.Args[0] {
			errs = append(errs, fmt.Errorf("line %d: @group(%d) is claimed by both %s and %s", a.Line, *a.Group, owner, a.Args[0]))
			continue
		}
		owners[*a.Group] = a.Args[0]
	}
	return errors.Join(errs...)
}

func (s *shader) hasBinding(group, binding int) bool {
	for _, e := range s.BindGroupLayoutDescriptor(group).Entries {
		if int(e.Binding) == binding {
			return true
		}
	}
	return false
}
