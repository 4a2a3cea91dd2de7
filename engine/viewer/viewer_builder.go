package viewer

import (
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/xr"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*viewer)

// WithCamera sets the camera the viewer rotates and resizes.
//
// Parameters:
//   - c: the camera, with its controller attached
//
// Returns:
//   - ViewerBuilderOption: functional option to set the camera
func WithCamera(c camera.Camera) ViewerBuilderOption {
	return func(v *viewer) {
		v.camera = c
	}
}

// WithMaterial sets the sphere material that receives loaded textures.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - ViewerBuilderOption: functional option to set the material
func WithMaterial(m material.Material) ViewerBuilderOption {
	return func(v *viewer) {
		v.material = m
	}
}

// WithScene sets the scene drawn each tick.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - ViewerBuilderOption: functional option to set the scene
func WithScene(s Scene) ViewerBuilderOption {
	return func(v *viewer) {
		v.scene = s
	}
}

// WithIngestor sets the ingestor that loads selected images.
//
// Parameters:
//   - i: the ingestor
//
// Returns:
//   - ViewerBuilderOption: functional option to set the ingestor
func WithIngestor(i loader.Ingestor) ViewerBuilderOption {
	return func(v *viewer) {
		v.ingestor = i
	}
}

// WithPlatform sets the XR platform queried by ToggleVR.
//
// Parameters:
//   - p: the platform
//
// Returns:
//   - ViewerBuilderOption: functional option to set the platform
func WithPlatform(p xr.Platform) ViewerBuilderOption {
	return func(v *viewer) {
		v.platform = p
	}
}

// WithAffordance sets the entry affordance attached while presenting.
//
// Parameters:
//   - a: the affordance
//
// Returns:
//   - ViewerBuilderOption: functional option to set the affordance
func WithAffordance(a xr.Affordance) ViewerBuilderOption {
	return func(v *viewer) {
		v.affordance = a
	}
}

// WithAlerter sets the blocking notifier used when VR is unsupported.
//
// Parameters:
//   - n: the blocking notifier
//
// Returns:
//   - ViewerBuilderOption: functional option to set the alerter
func WithAlerter(n xr.Notifier) ViewerBuilderOption {
	return func(v *viewer) {
		v.alerter = n
	}
}

// WithNotifier sets the non-blocking notifier used for load failures.
//
// Parameters:
//   - n: the notifier
//
// Returns:
//   - ViewerBuilderOption: functional option to set the notifier
func WithNotifier(n Notifier) ViewerBuilderOption {
	return func(v *viewer) {
		v.notifier = n
	}
}

// WithIndicator sets the loading indicator.
//
// Parameters:
//   - i: the indicator
//
// Returns:
//   - ViewerBuilderOption: functional option to set the indicator
func WithIndicator(i Indicator) ViewerBuilderOption {
	return func(v *viewer) {
		v.indicator = i
	}
}

// WithToggleButton sets the control whose visibility follows the toggle policy.
//
// Parameters:
//   - b: the toggle button
//
// Returns:
//   - ViewerBuilderOption: functional option to set the toggle button
func WithToggleButton(b ToggleButton) ViewerBuilderOption {
	return func(v *viewer) {
		v.toggle = b
	}
}

// WithToggleVisibility sets when the VR toggle becomes available.
//
// Parameters:
//   - policy: config.ToggleAlways or config.ToggleAfterFirstLoad
//
// Returns:
//   - ViewerBuilderOption: functional option to set the toggle policy
func WithToggleVisibility(policy config.ToggleVisibility) ViewerBuilderOption {
	return func(v *viewer) {
		v.visibility = policy
	}
}
