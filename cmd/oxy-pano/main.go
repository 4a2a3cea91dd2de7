// Command oxy-pano opens an equirectangular image and shows it as a 360 degree panorama.
//
// Usage:
//
//	oxy-pano [-config oxy-pano.yaml] [-software] [image]
//
// Drag with the left mouse button to look around, press O to open an image (or drop one
// onto the window), R to reset the view, V to toggle VR and Esc to quit.
package main

import (
	"flag"
	"log"
	"os"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/light"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/Carmen-Shannon/oxy-pano/engine/viewer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/Carmen-Shannon/oxy-pano/engine/xr"
)

func main() {
	configPath := flag.String("config", "oxy-pano.yaml", "path to the YAML config file")
	software := flag.Bool("software", false, "force the software (fallback) GPU adapter")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	if err := run(cfg, *software, flag.Arg(0)); err != nil {
		log.Printf("[Viewer] %v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, software bool, initialImage string) error {
	// ── Window ──────────────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	defer win.Close()

	// ── Renderer ────────────────────────────────────────────────────────
	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.ParseMSAA(cfg.Render.MSAA)),
		renderer.WithForceSoftwareRenderer(software),
	)
	defer r.Release()

	// ── Camera ──────────────────────────────────────────────────────────
	minRadius, maxRadius := cfg.ZoomBounds()
	cam := camera.NewCamera(
		camera.WithFov(common.DegToRad(cfg.Camera.FovDegrees)),
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithEyeSeparation(cfg.XR.IPD),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(cfg.Camera.Distance),
			camera.WithRadiusBounds(minRadius, maxRadius),
			camera.WithMouseSensitivity(cfg.Controls.RotateSpeed),
			camera.WithZoom(cfg.Controls.EnableZoom),
			camera.WithDamping(cfg.Controls.EnableDamping, cfg.Controls.DampingFactor),
		)),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	mat := material.NewMaterial(material.WithName("panorama"), material.WithPipelineKey(scene.PanoramaPipelineKey))
	sc, err := scene.NewScene(r, cam, mat,
		scene.WithSphere(cfg.Sphere.Radius, cfg.Sphere.WidthSegments, cfg.Sphere.HeightSegments),
		scene.WithLight(light.NewLight(light.WithIntensity(cfg.Render.Brightness))),
	)
	if err != nil {
		return err
	}
	defer sc.Release()

	// ── Viewer ──────────────────────────────────────────────────────────
	platform := xr.NoPlatform()
	if cfg.XR.Stereo {
		platform = xr.NewStereoPlatform()
	}
	status := newStatusBar(win, cfg.Window.Title)
	msgs := dialogs{title: cfg.Window.Title}

	v := viewer.NewViewer(
		viewer.WithCamera(cam),
		viewer.WithMaterial(mat),
		viewer.WithScene(sc),
		viewer.WithIngestor(loader.NewIngestor(
			loader.NewLoader(loader.BackendTypeImage, loader.WithMaxDimension(cfg.Texture.MaxDimension)),
			loader.WithWorkers(cfg.Workers),
		)),
		viewer.WithPlatform(platform),
		viewer.WithAffordance(status),
		viewer.WithAlerter(msgs),
		viewer.WithNotifier(msgs),
		viewer.WithIndicator(status),
		viewer.WithToggleButton(status),
		viewer.WithToggleVisibility(cfg.UI.ToggleVisibility),
	)
	defer v.Close()

	// ── Input ───────────────────────────────────────────────────────────
	var picking atomic.Bool
	openPicker := func() {
		if !picking.CompareAndSwap(false, true) {
			return
		}
		go func() {
			defer picking.Store(false)
			paths, err := pickImage()
			if err != nil {
				msgs.Notify(err.Error())
				return
			}
			v.HandleFileSelection(paths)
		}()
	}

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyO:
			openPicker()
		case common.KeyR:
			v.ResetView()
		case common.KeyV:
			v.ToggleVR()
		}
	})

	var dragging bool
	var lastX, lastY int32
	win.SetMouseDownCallback(func(button int, x, y int32) {
		if button == common.MouseButtonLeft {
			dragging, lastX, lastY = true, x, y
		}
	})
	win.SetMouseUpCallback(func(button int, x, y int32) {
		if button == common.MouseButtonLeft {
			dragging = false
		}
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		v.Drag(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})
	win.SetScrollCallback(v.Zoom)
	win.SetDropCallback(v.HandleFileSelection)
	win.SetResizeCallback(v.Resize)

	v.Resize(win.Width(), win.Height())
	if initialImage != "" {
		v.HandleFileSelection([]string{initialImage})
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithHost(win),
		engine.WithRenderCallback(v.Tick),
		engine.WithRenderFrameLimit(float64(cfg.Render.FrameLimit)),
		engine.WithProfiling(cfg.Debug.Profile),
	)

	log.Printf("[Viewer] press O to open a panorama, V to toggle VR, Esc to quit")
	return eng.Run()
}
