package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
//@oxy:include camera
//@oxy:include vertex

struct Tint {
    color: vec4<f32>,
    strength: f32,
};

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:provider 0 0 camera

/* the image and its sampler */
//@oxy:provider 1 0 material diffuse_texture
@group(1) @binding(0) var image: texture_2d<f32>;
//@oxy:provider 1 1 material diffuse_sampler
@group(1) @binding(1) var image_sampler: sampler;
//@oxy:provider 1 2 material params
@group(1) @binding(2) var<uniform> tint: Tint;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

fn shade(uv: vec2<f32>) -> vec4<f32> {
    return textureSample(image, image_sampler, uv) * tint.color;
}

@vertex
fn vertex_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fragment_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return shade(in.uv) * tint.strength;
}
`

func TestNewShaderDerivesLayouts(t *testing.T) {
	s, err := NewShader("test", testSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.VertexEntryPoint() != "vertex_main" || s.FragmentEntryPoint() != "fragment_main" {
		t.Fatalf("entry points = %q/%q", s.VertexEntryPoint(), s.FragmentEntryPoint())
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 || layouts[0].ArrayStride != 20 || len(layouts[0].Attributes) != 2 {
		t.Fatalf("vertex layouts = %+v", layouts)
	}
	if uv := layouts[0].Attributes[1]; uv.Format != wgpu.VertexFormatFloat32x2 || uv.Offset != 12 || uv.ShaderLocation != 1 {
		t.Fatalf("uv attribute = %+v", uv)
	}

	descs := s.BindGroupLayoutDescriptors()
	if len(descs) != 2 {
		t.Fatalf("got %d groups, want 2", len(descs))
	}
	cam := descs[0].Entries[0]
	if cam.Buffer.Type != wgpu.BufferBindingTypeUniform || cam.Buffer.MinBindingSize != 80 {
		t.Fatalf("camera entry = %+v", cam.Buffer)
	}
	if cam.Visibility != wgpu.ShaderStageVertex {
		t.Fatalf("camera visibility = %v, want vertex", cam.Visibility)
	}

	mat := descs[1].Entries
	if len(mat) != 3 {
		t.Fatalf("material group has %d entries, want 3", len(mat))
	}
	if mat[2].Buffer.MinBindingSize != 32 {
		t.Fatalf("Tint MinBindingSize = %d, want 32", mat[2].Buffer.MinBindingSize)
	}
	// image is only reached through a helper function.
	if mat[0].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Fatalf("image visibility = %v, want both stages", mat[0].Visibility)
	}
	if mat[2].Visibility != wgpu.ShaderStageFragment {
		t.Fatalf("tint visibility = %v, want fragment", mat[2].Visibility)
	}
	if !strings.HasPrefix(descs[1].Label, "test") {
		t.Fatalf("label = %q", descs[1].Label)
	}
}

func TestProviderLookups(t *testing.T) {
	s := MustNewShader("test", testSource)

	if g, ok := s.ProviderGroup(AnnotationArgMaterial); !ok || g != 1 {
		t.Fatalf("ProviderGroup(material) = %d, %v", g, ok)
	}
	if g, ok := s.ProviderGroup(AnnotationArgCamera); !ok || g != 0 {
		t.Fatalf("ProviderGroup(camera) = %d, %v", g, ok)
	}
	if g, b, ok := s.RoleBinding(AnnotationArgMaterial, AnnotationArgDiffuseSampler); !ok || g != 1 || b != 1 {
		t.Fatalf("RoleBinding(diffuse_sampler) = %d, %d, %v", g, b, ok)
	}
	if _, _, ok := s.RoleBinding(AnnotationArgCamera, AnnotationArgParams); ok {
		t.Fatal("camera has no params role")
	}
	if n := len(s.Declarations()); n != 5 {
		t.Fatalf("got %d declarations, want 5", n)
	}
}

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include material_params\n//@oxy:group 2 0 storage_read p material_params\nfn f() {}")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out, "struct MaterialParams") {
		t.Fatal("include was not expanded")
	}
	if !strings.Contains(out, "@group(2) @binding(0) var<storage, read> p: MaterialParams;") {
		t.Fatalf("group declaration missing from:\n%s", out)
	}
	if len(pp.Declarations()) != 1 {
		t.Fatalf("got %d declarations, want 1", len(pp.Declarations()))
	}
}

func TestNewShaderRejects(t *testing.T) {
	entries := "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }\n@fragment fn f() -> @location(0) vec4<f32> { return vec4<f32>(); }\n"
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown annotation", "//@oxy:bogus\n" + entries, "unknown @oxy annotation"},
		{"unknown struct", "//@oxy:include nothing\n" + entries, "unknown struct type"},
		{"bad group number", "//@oxy:provider x 0 camera\n" + entries, "invalid group number"},
		{"missing fragment", "@vertex fn v() -> @builtin(position) vec4<f32> { return vec4<f32>(); }", "entry point"},
		{"undeclared provider binding", "//@oxy:provider 0 3 camera\n" + entries, "is not declared"},
		{"skipped group", "@group(1) @binding(0) var s: sampler;\n" + entries, "is skipped"},
		{"duplicate binding", "@group(0) @binding(0) var a: sampler;\n@group(0) @binding(0) var b: sampler;\n" + entries, "declared by both"},
		{"storage texture", "@group(0) @binding(0) var t: texture_storage_2d<rgba8unorm, write>;\n" + entries, "unsupported binding type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("NewShader error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Plane": {16, 16}}
	tests := []struct {
		typeName string
		want     wgslTypeLayout
		ok       bool
	}{
		{"f32", wgslTypeLayout{4, 4}, true},
		{"vec3<f32>", wgslTypeLayout{12, 16}, true},
		{"array<Plane, 6>", wgslTypeLayout{96, 16}, true},
		{"array<f32, 3>", wgslTypeLayout{12, 4}, true},
		{"array<f32>", wgslTypeLayout{}, false},
		{"Unknown", wgslTypeLayout{}, false},
	}
	for _, tt := range tests {
		got, ok := resolveTypeLayout(tt.typeName, known)
		if ok != tt.ok || got != tt.want {
			t.Errorf("resolveTypeLayout(%q) = %+v, %v; want %+v, %v", tt.typeName, got, ok, tt.want, tt.ok)
		}
	}
}
