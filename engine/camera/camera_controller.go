package camera

// CameraController defines the interface for drag-to-orbit camera control.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices. The controller orbits around its target
// using spherical coordinates (radius, azimuth, elevation); for a panorama the target
// is the sphere center and the radius is small, so orbiting turns the view in place.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Rotate applies a pointer drag of (dx, dy) pixels scaled by MouseSensitivity.
	// With damping enabled the rotation is accumulated and eased in by Update;
	// otherwise it is applied immediately.
	//
	// Parameters:
	//   - dx: horizontal drag distance in pixels (positive = right)
	//   - dy: vertical drag distance in pixels (positive = down)
	Rotate(dx, dy float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target). No-op when zoom is disabled.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Update advances the damping state by one frame. Must be called once per rendered frame.
	// Without damping this is a no-op.
	//
	// Returns:
	//   - bool: true if the camera moved during this update
	Update() bool

	// Reset restores the spherical coordinates the controller was created with
	// and discards any pending damped rotation.
	Reset()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MouseSensitivity returns the drag sensitivity in radians per pixel.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// ZoomEnabled reports whether Zoom changes the radius.
	//
	// Returns:
	//   - bool: true if zoom is enabled
	ZoomEnabled() bool

	// DampingEnabled reports whether rotation is eased in over several frames.
	//
	// Returns:
	//   - bool: true if damping is enabled
	DampingEnabled() bool

	// DampingFactor returns the fraction of pending rotation applied per Update.
	//
	// Returns:
	//   - float32: damping factor in (0, 1]
	DampingFactor() float32
}
