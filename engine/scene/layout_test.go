package scene

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestLayoutsMatchGPUTypes(t *testing.T) {
	var u camera.GPUCameraUniform
	cam := CameraBindGroupLayoutDescriptor()
	if len(cam.Entries) != 1 {
		t.Fatalf("camera layout has %d entries, want 1", len(cam.Entries))
	}
	if got := cam.Entries[0].Buffer.MinBindingSize; got != uint64(u.Size()) {
		t.Fatalf("camera MinBindingSize = %d, want %d", got, u.Size())
	}

	var params material.GPUMaterialParams
	mat := MaterialBindGroupLayoutDescriptor()
	if len(mat.Entries) != 3 {
		t.Fatalf("material layout has %d entries, want 3", len(mat.Entries))
	}
	if got := mat.Entries[paramsBinding].Buffer.MinBindingSize; got != uint64(params.Size()) {
		t.Fatalf("params MinBindingSize = %d, want %d", got, params.Size())
	}

	var v model.GPUVertex
	layouts := panorama.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("shader declares %d vertex layouts, want 1", len(layouts))
	}
	vl := layouts[0]
	if vl.ArrayStride != uint64(v.Size()) {
		t.Fatalf("ArrayStride = %d, want %d", vl.ArrayStride, v.Size())
	}
	if last := vl.Attributes[len(vl.Attributes)-1]; last.Offset+8 != vl.ArrayStride {
		t.Fatalf("texture coordinate ends at %d, stride is %d", last.Offset+8, vl.ArrayStride)
	}
}

func TestShaderBindingsResolve(t *testing.T) {
	if cameraGroup != 0 || materialGroup != 1 {
		t.Fatalf("groups = camera %d material %d, want 0 and 1", cameraGroup, materialGroup)
	}
	if textureBinding != 0 || samplerBinding != 1 || paramsBinding != 2 {
		t.Fatalf("material bindings = %d/%d/%d, want 0/1/2", textureBinding, samplerBinding, paramsBinding)
	}

	mat := MaterialBindGroupLayoutDescriptor()
	if tex := mat.Entries[textureBinding].Texture; tex.ViewDimension != wgpu.TextureViewDimension2D || tex.SampleType != wgpu.TextureSampleTypeFloat {
		t.Fatalf("texture entry = %+v", tex)
	}
	if mat.Entries[samplerBinding].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatal("sampler entry should be a filtering sampler")
	}
	for _, e := range mat.Entries {
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Fatalf("material binding %d visibility = %v, want fragment", e.Binding, e.Visibility)
		}
	}
	if vis := CameraBindGroupLayoutDescriptor().Entries[0].Visibility; vis != wgpu.ShaderStageVertex {
		t.Fatalf("camera visibility = %v, want vertex", vis)
	}
}

func TestShaderSourceIsExpanded(t *testing.T) {
	src := panorama.Source()
	for _, want := range []string{
		"struct CameraUniform",
		"struct MaterialParams",
		"struct VertexInput",
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"@group(1) @binding(2) var<uniform> params: MaterialParams;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("expanded source is missing %q", want)
		}
	}
	if strings.Contains(src, "@oxy:") {
		t.Error("expanded source still contains annotations")
	}
}

func TestPanoramaPipelineDescription(t *testing.T) {
	p := NewPanoramaPipeline()
	if p.PipelineKey() != PanoramaPipelineKey {
		t.Fatalf("PipelineKey() = %q", p.PipelineKey())
	}
	if p.VertexEntryPoint() != "vs_main" || p.FragmentEntryPoint() != "fs_main" {
		t.Fatalf("entry points = %q/%q", p.VertexEntryPoint(), p.FragmentEntryPoint())
	}
	if n := len(p.BindGroupLayoutDescriptors()); n != 2 {
		t.Fatalf("pipeline declares %d bind groups, want 2", n)
	}
	if n := len(p.VertexLayouts()); n != 1 {
		t.Fatalf("pipeline declares %d vertex layouts, want 1", n)
	}
	if p.BindGroupLayout(cameraGroup) != nil {
		t.Fatal("unregistered pipeline should have no GPU layouts")
	}
}
