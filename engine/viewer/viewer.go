package viewer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/xr"
)

// Scene is the drawable panorama: it owns the drawing surface and reads the material
// and camera the viewer mutates.
type Scene interface {
	// Resize matches the drawing surface to the window size in pixels.
	Resize(width, height int)

	// Draw renders one frame, as two side-by-side eye views when stereo is true.
	Draw(stereo bool) error
}

// ErrTextureRejected is wrapped by Scene.Draw when a decoded image could not be placed on the
// GPU. The scene keeps drawing the previously bound texture and restores it on the material.
var ErrTextureRejected = errors.New("texture rejected")

// Indicator is the loading indicator shown while an image decodes.
type Indicator interface {
	Show()
	Hide()
}

// Notifier shows a non-blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// ToggleButton is the control that invokes ToggleVR.
type ToggleButton interface {
	SetVisible(visible bool)
}

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu     sync.Mutex
	events []func()

	ctx    context.Context
	cancel context.CancelFunc

	camera   camera.Camera
	material material.Material
	scene    Scene
	ingestor loader.Ingestor
	session  xr.Session

	platform   xr.Platform
	affordance xr.Affordance
	alerter    xr.Notifier
	indicator  Indicator
	notifier   Notifier
	toggle     ToggleButton
	visibility config.ToggleVisibility

	width, height int
	loading       bool
	loaded        bool
	toggleVisible bool
	closed        bool
}

// Viewer is the panorama viewer context: it owns the camera, the sphere material, image
// ingestion and the VR session for the lifetime of the window.
//
// Input methods (HandleFileSelection, ToggleVR, Resize, Drag, Zoom, ResetView) may be called
// from any goroutine. They only enqueue work; Tick runs the queue on the render loop
// goroutine, which is the only goroutine that mutates render-visible state. The accessors
// read that state and belong on the render loop as well.
type Viewer interface {
	// HandleFileSelection starts ingesting the first path. An empty selection is ignored.
	// A newer selection supersedes any load still in flight.
	//
	// Parameters:
	//   - paths: the selected files, in selection order
	HandleFileSelection(paths []string)

	// ToggleVR enters or leaves immersive presentation.
	// Ignored while the toggle is hidden.
	ToggleVR()

	// Resize updates the camera aspect ratio and the drawing surface.
	// Non-positive sizes (a minimised window) are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Drag rotates the view by a pointer drag in pixels.
	//
	// Parameters:
	//   - dx: horizontal drag distance
	//   - dy: vertical drag distance
	Drag(dx, dy float32)

	// Zoom forwards a scroll amount to the camera controller.
	//
	// Parameters:
	//   - delta: positive values zoom in
	Zoom(delta float32)

	// ResetView restores the initial camera orientation.
	ResetView()

	// Post schedules f to run on the render loop at the start of the next Tick.
	//
	// Parameters:
	//   - f: the function to run
	Post(f func())

	// Tick runs queued work, advances the camera controller, and draws one frame.
	// Must be called from a single goroutine.
	//
	// Parameters:
	//   - dt: seconds since the previous tick
	Tick(dt float32)

	// Camera returns the viewer camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Material returns the sphere material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Session returns the VR session.
	//
	// Returns:
	//   - xr.Session: the session
	Session() xr.Session

	// Loading reports whether the latest selection is still decoding.
	//
	// Returns:
	//   - bool: true while the indicator is shown
	Loading() bool

	// ToggleVisible reports whether the VR toggle accepts input.
	//
	// Returns:
	//   - bool: true if ToggleVR is honoured
	ToggleVisible() bool

	// Size returns the last applied surface size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Close cancels outstanding work and stops the ingestion workers.
	Close()
}

var _ Viewer = &viewer{}

// NewViewer creates the viewer context. Missing collaborators get defaults: a camera at the
// sphere center, a white material, an image ingestor and no XR platform.
//
// Parameters:
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the newly created viewer
func NewViewer(options ...ViewerBuilderOption) Viewer {
	v := &viewer{
		visibility: config.ToggleAfterFirstLoad,
	}
	for _, option := range options {
		option(v)
	}

	v.ctx, v.cancel = context.WithCancel(context.Background())

	if v.camera == nil {
		v.camera = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	if v.material == nil {
		v.material = material.NewMaterial(material.WithName("panorama"))
	}
	if v.ingestor == nil {
		v.ingestor = loader.NewIngestor(loader.NewLoader(loader.BackendTypeImage))
	}
	if v.platform == nil {
		v.platform = xr.NoPlatform()
	}

	v.session = xr.NewSession(v.platform,
		xr.WithAffordance(v.affordance),
		xr.WithNotifier(v.alerter),
		xr.WithDispatcher(v.Post),
		xr.WithStateChange(func(st xr.State) { log.Printf("[Viewer] XR session %s", st) }),
	)

	v.setToggleVisible(v.visibility == config.ToggleAlways)
	return v
}

func (v *viewer) HandleFileSelection(paths []string) {
	v.Post(func() { v.selectFiles(paths) })
}

func (v *viewer) ToggleVR() {
	v.Post(v.toggleVR)
}

func (v *viewer) Resize(width, height int) {
	v.Post(func() { v.resize(width, height) })
}

func (v *viewer) Drag(dx, dy float32) {
	v.Post(func() {
		if ctrl := v.camera.Controller(); ctrl != nil {
			ctrl.Rotate(dx, dy)
		}
	})
}

func (v *viewer) Zoom(delta float32) {
	v.Post(func() {
		if ctrl := v.camera.Controller(); ctrl != nil {
			ctrl.Zoom(delta)
		}
	})
}

func (v *viewer) ResetView() {
	v.Post(func() {
		if ctrl := v.camera.Controller(); ctrl != nil {
			ctrl.Reset()
		}
	})
}

func (v *viewer) Post(f func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.events = append(v.events, f)
}

func (v *viewer) Tick(dt float32) {
	v.drain()

	if ctrl := v.camera.Controller(); ctrl != nil {
		ctrl.Update()
	}
	v.camera.Update()

	if v.scene == nil {
		return
	}
	err := v.scene.Draw(v.session.State() == xr.StatePresenting)
	switch {
	case errors.Is(err, ErrTextureRejected):
		v.textureRejected(err)
	case err != nil:
		log.Printf("[Viewer] draw: %v", err)
	}
}

func (v *viewer) Camera() camera.Camera {
	return v.camera
}

func (v *viewer) Material() material.Material {
	return v.material
}

func (v *viewer) Session() xr.Session {
	return v.session
}

func (v *viewer) Loading() bool {
	return v.loading
}

func (v *viewer) ToggleVisible() bool {
	return v.toggleVisible
}

func (v *viewer) Size() (int, int) {
	return v.width, v.height
}

func (v *viewer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.events = nil
	v.mu.Unlock()

	v.cancel()
	v.ingestor.Close()
}

// drain runs every queued event, including ones queued by the events themselves
// during this tick.
func (v *viewer) drain() {
	for {
		v.mu.Lock()
		events := v.events
		v.events = nil
		v.mu.Unlock()

		if len(events) == 0 {
			return
		}
		for _, f := range events {
			f()
		}
	}
}

func (v *viewer) selectFiles(paths []string) {
	if len(paths) == 0 || paths[0] == "" {
		return
	}
	path := paths[0]

	seq := v.ingestor.Submit(path, func(r loader.Result) {
		v.Post(func() { v.applyResult(r) })
	})
	if seq == 0 {
		return
	}

	if !v.loading && v.indicator != nil {
		v.indicator.Show()
	}
	v.loading = true
	log.Printf("[Viewer] loading %s", path)
}

// applyResult binds a finished load if it belongs to the latest selection.
func (v *viewer) applyResult(r loader.Result) {
	if !v.ingestor.IsLatest(r.Seq) {
		return
	}

	v.loading = false
	if v.indicator != nil {
		v.indicator.Hide()
	}

	if r.Err != nil {
		log.Printf("[Viewer] failed to load %s: %v", r.Path, r.Err)
		if v.notifier != nil {
			v.notifier.Notify(fmt.Sprintf("Could not load %s: %v", filepath.Base(r.Path), r.Err))
		}
		return
	}

	v.material.SetDiffuseTexture(r.Texture)
	log.Printf("[Viewer] bound %s (%dx%d)", r.Texture.Name, r.Texture.Width, r.Texture.Height)

	if !v.loaded {
		v.loaded = true
		if v.visibility == config.ToggleAfterFirstLoad {
			v.setToggleVisible(true)
		}
	}
}

// textureRejected reports an upload failure. The material already holds the previous
// texture again; if that is the placeholder, no image has been shown yet.
func (v *viewer) textureRejected(err error) {
	log.Printf("[Viewer] %v", err)
	if v.notifier != nil {
		v.notifier.Notify(fmt.Sprintf("Could not display image: %v", err))
	}
	if v.material.DiffuseTexture() == nil && v.loaded {
		v.loaded = false
		if v.visibility == config.ToggleAfterFirstLoad {
			v.setToggleVisible(false)
		}
	}
}

func (v *viewer) toggleVR() {
	if !v.toggleVisible {
		return
	}
	err := v.session.Toggle(v.ctx)
	switch {
	case errors.Is(err, xr.ErrTogglePending):
		log.Printf("[Viewer] VR toggle ignored: capability query in flight")
	case err != nil:
		log.Printf("[Viewer] VR toggle: %v", err)
	}
}

func (v *viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = width, height
	v.camera.SetAspect(float32(width) / float32(height))
	if v.scene != nil {
		v.scene.Resize(width, height)
	}
}

func (v *viewer) setToggleVisible(visible bool) {
	v.toggleVisible = visible
	if v.toggle != nil {
		v.toggle.SetVisible(visible)
	}
}
