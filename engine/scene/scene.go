package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/light"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/viewer"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	monoEyes   = []camera.Eye{camera.EyeMono}
	stereoEyes = []camera.Eye{camera.EyeLeft, camera.EyeRight}
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu   sync.Mutex
	name string

	renderer renderer.Renderer
	camera   camera.Camera
	material material.Material
	light    light.Light

	radius         float32
	widthSegments  int
	heightSegments int
	mesh           model.Model

	meshProvider     bind_group_provider.BindGroupProvider
	cameraProviders  [3]bind_group_provider.BindGroupProvider // indexed by camera.Eye
	materialProvider bind_group_provider.BindGroupProvider
	materialLayout   *wgpu.BindGroupLayout
	boundTexture     string
	texture          *common.ImportedTexture // nil while the placeholder is bound

	released bool
}

// Scene draws the panorama: the inside of a sphere textured with the material's diffuse
// texture and viewed through the camera. Until a texture is bound the sphere shows a plain
// white placeholder.
//
// All methods touch GPU state and must be called from the render loop goroutine.
type Scene interface {
	viewer.Scene

	// Name returns the scene's identifier.
	Name() string

	// Camera returns the camera the scene is drawn through.
	Camera() camera.Camera

	// Material returns the sphere material.
	Material() material.Material

	// Light returns the ambient light tinting the panorama.
	Light() light.Light

	// Mesh returns the sphere geometry.
	Mesh() model.Model

	// BoundTexture returns the name of the texture currently on the GPU.
	//
	// Returns:
	//   - string: the texture name, or the placeholder name before the first load
	BoundTexture() string

	// Release frees the mesh buffers, uniforms and textures owned by the scene.
	// The pipeline belongs to the renderer and is released with it.
	Release()
}

var _ Scene = &scene{}

// placeholderName names the white texture shown before any image is bound.
const placeholderName = "placeholder"

// NewScene registers the panorama pipeline with r, uploads the sphere mesh and creates the
// camera and material bind groups.
//
// Parameters:
//   - r: the renderer that owns the drawing surface
//   - cam: the camera the panorama is viewed through
//   - mat: the sphere material
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the ready-to-draw scene
//   - error: an error if any GPU resource could not be created
func NewScene(r renderer.Renderer, cam camera.Camera, mat material.Material, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		name:           "Panorama",
		renderer:       r,
		camera:         cam,
		material:       mat,
		radius:         100,
		widthSegments:  60,
		heightSegments: 40,
	}
	for _, option := range options {
		option(s)
	}
	if s.light == nil {
		s.light = light.NewLight()
	}

	p := NewPanoramaPipeline()
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	// The renderer keeps the first registration of a key, so read the cached pipeline back.
	p = r.Pipeline(PanoramaPipelineKey)

	s.mesh = model.NewSphere(s.radius, s.widthSegments, s.heightSegments, model.WithName(s.name+" Sphere"))
	s.meshProvider = bind_group_provider.NewBindGroupProvider(s.name + " Mesh")
	if err := r.InitMeshBuffers(s.meshProvider, s.mesh.VertexData(), s.mesh.IndexData(), s.mesh.IndexCount()); err != nil {
		s.Release()
		return nil, fmt.Errorf("failed to upload sphere mesh: %w", err)
	}

	cameraLayout := CameraBindGroupLayoutDescriptor()
	for _, eye := range []camera.Eye{camera.EyeMono, camera.EyeLeft, camera.EyeRight} {
		provider := bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("%s Camera %d", s.name, eye),
			bind_group_provider.WithBindGroupLayout(p.BindGroupLayout(cameraGroup)),
		)
		s.cameraProviders[eye] = provider
		if err := r.InitBindGroup(provider, cameraLayout); err != nil {
			s.Release()
			return nil, fmt.Errorf("failed to create camera bind group: %w", err)
		}
	}

	s.materialLayout = p.BindGroupLayout(materialGroup)

	mat.ConsumeDirty()
	if err := s.uploadTexture(mat.DiffuseTexture()); err != nil {
		s.Release()
		return nil, err
	}

	log.Printf("[Scene] %s ready: %d vertices, %d indices", s.name, s.mesh.VertexCount(), s.mesh.IndexCount())
	return s, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Material() material.Material {
	return s.material
}

func (s *scene) Light() light.Light {
	return s.light
}

func (s *scene) Mesh() model.Model {
	return s.mesh
}

func (s *scene) BoundTexture() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundTexture
}

func (s *scene) Resize(width, height int) {
	s.renderer.Resize(width, height)
}

func (s *scene) Draw(stereo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}

	var uploadErr error
	if s.material.ConsumeDirty() {
		if err := s.uploadTexture(s.material.DiffuseTexture()); err != nil {
			log.Printf("[Scene] %v", err)
			s.material.SetDiffuseTexture(s.texture)
			s.material.ConsumeDirty()
			uploadErr = fmt.Errorf("%w: %v", viewer.ErrTextureRejected, err)
		}
	}

	eyes := monoEyes
	if stereo {
		eyes = stereoEyes
	}

	params := material.GPUMaterialParams{
		BaseColor:    s.material.BaseColor(),
		AmbientColor: s.light.AmbientColor(),
	}
	writes := []bind_group_provider.BufferWrite{
		{Provider: s.materialProvider, Binding: paramsBinding, Data: params.Marshal()},
	}
	for _, eye := range eyes {
		u := camera.NewGPUCameraUniform(s.camera, eye)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: s.cameraProviders[eye],
			Binding:  0,
			Data:     u.Marshal(),
		})
	}
	s.renderer.WriteBuffers(writes)

	if err := s.renderer.BeginFrame(); err != nil {
		return errors.Join(uploadErr, err)
	}

	width, height := s.renderer.SurfaceSize()
	var drawErr error
	for _, eye := range eyes {
		s.renderer.SetViewport(camera.Viewport(eye, width, height))
		if err := s.renderer.DrawCall(PanoramaPipelineKey, s.meshProvider, 1, []bind_group_provider.BindGroupProvider{
			s.cameraProviders[eye],
			s.materialProvider,
		}); err != nil {
			drawErr = err
			break
		}
	}

	s.renderer.EndFrame()
	s.renderer.Present()
	return errors.Join(uploadErr, drawErr)
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true

	if s.meshProvider != nil {
		s.meshProvider.Release()
	}
	for _, provider := range s.cameraProviders {
		if provider != nil {
			provider.Release()
		}
	}
	if s.materialProvider != nil {
		s.materialProvider.Release()
	}
}

// uploadTexture builds a material bind group around tex, or the white placeholder when tex
// is nil, and swaps it in. The bound group is only released once its replacement is complete,
// so a failed upload leaves the previous texture on screen.
func (s *scene) uploadTexture(tex *common.ImportedTexture) error {
	staged := tex
	if staged == nil {
		staged = common.SolidTexture(placeholderName, [4]float32{1, 1, 1, 1})
	}

	provider := bind_group_provider.NewBindGroupProvider(
		s.name+" Material",
		bind_group_provider.WithBindGroupLayout(s.materialLayout),
	)
	if err := s.initMaterialProvider(provider, staged); err != nil {
		provider.Release()
		return err
	}

	if s.materialProvider != nil {
		s.materialProvider.Release()
	}
	s.materialProvider = provider
	s.boundTexture = staged.Name
	s.texture = tex
	if tex != nil {
		log.Printf("[Scene] uploaded %s (%dx%d)", tex.Name, tex.Width, tex.Height)
	}
	return nil
}

func (s *scene) initMaterialProvider(provider bind_group_provider.BindGroupProvider, tex *common.ImportedTexture) error {
	// Equirectangular images wrap horizontally and stop at the poles.
	if err := s.renderer.InitSampler(provider, samplerBinding, renderer.SamplerStagingData{RepeatU: true}); err != nil {
		return fmt.Errorf("failed to create panorama sampler: %w", err)
	}
	if err := s.renderer.InitTextureView(provider, textureBinding, tex.StagingData()); err != nil {
		return fmt.Errorf("failed to upload texture %s: %w", tex.Name, err)
	}
	if err := s.renderer.InitBindGroup(provider, MaterialBindGroupLayoutDescriptor()); err != nil {
		return fmt.Errorf("failed to bind texture %s: %w", tex.Name, err)
	}
	return nil
}
