package camera

import (
	"math"
	"sync"
)

// dampingEpsilon is the pending rotation (radians) below which damping is considered settled.
const dampingEpsilon = 1e-6

// cameraControllerImpl is the single implementation of CameraController.
// Orbit methods modify spherical coordinates and recompute position.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Values captured at construction, restored by Reset
	initialRadius    float32
	initialAzimuth   float32
	initialElevation float32

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	enableZoom       bool

	// Damping state: rotation still to be applied by Update
	enableDamping    bool
	dampingFactor    float32
	pendingAzimuth   float32
	pendingElevation float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with defaults suited to viewing
// a panorama from just inside the center of its sphere.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:    0.1,
		azimuth:   0.0,
		elevation: 0.0,

		minRadius:    0.01,
		maxRadius:    50.0,
		minElevation: -float32(math.Pi/2 - 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		mouseSensitivity: 0.005,
		zoomSpeed:        1.0,
		enableZoom:       false,

		enableDamping: false,
		dampingFactor: 0.05,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clampLocked()
	cc.initialRadius = cc.radius
	cc.initialAzimuth = cc.azimuth
	cc.initialElevation = cc.elevation
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

// clampLocked restricts radius and elevation to their configured bounds.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) clampLocked() {
	if cc.radius < cc.minRadius {
		cc.radius = cc.minRadius
	}
	if cc.radius > cc.maxRadius {
		cc.radius = cc.maxRadius
	}
	if cc.elevation < cc.minElevation {
		cc.elevation = cc.minElevation
	}
	if cc.elevation > cc.maxElevation {
		cc.elevation = cc.maxElevation
	}
}

// --- CameraController methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[0] = x
	cc.target[1] = y
	cc.target[2] = z
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	// Dragging right swings the camera left around the target, which turns the
	// view toward the right from inside the sphere.
	dAzim := -dx * cc.mouseSensitivity
	dElev := dy * cc.mouseSensitivity

	if cc.enableDamping {
		cc.pendingAzimuth += dAzim
		cc.pendingElevation += dElev
		return
	}

	cc.azimuth += dAzim
	cc.elevation += dElev
	cc.clampLocked()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enableZoom {
		return
	}
	cc.radius -= delta * cc.zoomSpeed
	cc.clampLocked()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.enableDamping {
		return false
	}
	if math.Abs(float64(cc.pendingAzimuth)) < dampingEpsilon && math.Abs(float64(cc.pendingElevation)) < dampingEpsilon {
		cc.pendingAzimuth = 0
		cc.pendingElevation = 0
		return false
	}

	cc.azimuth += cc.pendingAzimuth * cc.dampingFactor
	cc.elevation += cc.pendingElevation * cc.dampingFactor
	cc.pendingAzimuth *= 1 - cc.dampingFactor
	cc.pendingElevation *= 1 - cc.dampingFactor

	cc.clampLocked()
	cc.updatePosition()
	return true
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = cc.initialRadius
	cc.azimuth = cc.initialAzimuth
	cc.elevation = cc.initialElevation
	cc.pendingAzimuth = 0
	cc.pendingElevation = 0
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	cc.clampLocked()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = elevation
	cc.clampLocked()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enableZoom
}

func (cc *cameraControllerImpl) DampingEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enableDamping
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}
