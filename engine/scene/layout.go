package scene

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PanoramaShaderSource is the annotated WGSL module drawing the textured inside of the sphere.
// Its CameraUniform, MaterialParams and VertexInput structs are injected from
// GPUCameraUniform, GPUMaterialParams and GPUVertex.
//
//go:embed assets/panorama.wgsl
var PanoramaShaderSource string

// PanoramaPipelineKey identifies the panorama render pipeline in the renderer cache.
const PanoramaPipelineKey = "panorama"

// panorama is the parsed panorama shader. Layouts and binding indices come from it.
var panorama = shader.MustNewShader(PanoramaPipelineKey, PanoramaShaderSource)

var (
	cameraGroup, _   = panorama.ProviderGroup(shader.AnnotationArgCamera)
	materialGroup, _ = panorama.ProviderGroup(shader.AnnotationArgMaterial)

	_, textureBinding, _ = panorama.RoleBinding(shader.AnnotationArgMaterial, shader.AnnotationArgDiffuseTexture)
	_, samplerBinding, _ = panorama.RoleBinding(shader.AnnotationArgMaterial, shader.AnnotationArgDiffuseSampler)
	_, paramsBinding, _  = panorama.RoleBinding(shader.AnnotationArgMaterial, shader.AnnotationArgParams)
)

// CameraBindGroupLayoutDescriptor describes the per-eye camera uniform group.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func CameraBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return panorama.BindGroupLayoutDescriptor(cameraGroup)
}

// MaterialBindGroupLayoutDescriptor describes the panorama texture, its sampler and the
// material params uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func MaterialBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return panorama.BindGroupLayoutDescriptor(materialGroup)
}

// NewPanoramaPipeline describes the panorama render pipeline. The sphere is viewed from
// inside with counter-clockwise front faces, so back faces are culled.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline description
func NewPanoramaPipeline() pipeline.Pipeline {
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithSource(panorama.Source()),
		pipeline.WithEntryPoints(panorama.VertexEntryPoint(), panorama.FragmentEntryPoint()),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
	}
	for _, layout := range panorama.VertexLayouts() {
		opts = append(opts, pipeline.WithVertexLayout(layout))
	}
	for _, desc := range panorama.BindGroupLayoutDescriptors() {
		opts = append(opts, pipeline.WithBindGroupLayoutDescriptor(desc))
	}
	return pipeline.NewPipeline(PanoramaPipelineKey, opts...)
}
