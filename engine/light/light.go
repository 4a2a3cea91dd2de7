package light

import "sync"

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu        sync.Mutex
	color     [3]float32
	intensity float32
	enabled   bool
}

// Light is the uniform ambient light that tints the panorama.
//
// The panorama is unlit image content, so the only light is a global color multiplier:
// each sampled texel is scaled by Color() * Intensity(). A disabled light contributes
// white at full intensity, leaving the image untouched.
type Light interface {
	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether the light tints the panorama.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetColor sets the RGB color of the light. Components are clamped to [0, 1].
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier. Negative values are clamped to 0.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// AmbientColor returns the premultiplied color written into the material uniform.
	//
	// Returns:
	//   - [4]float32: (r, g, b) scaled by intensity, alpha 1
	AmbientColor() [4]float32
}

var _ Light = &lightImpl{}

// NewLight creates a white, full-intensity, enabled ambient light with any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = clampColor(r, g, b)
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) AmbientColor() [4]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return [4]float32{1, 1, 1, 1}
	}
	return [4]float32{
		l.color[0] * l.intensity,
		l.color[1] * l.intensity,
		l.color[2] * l.intensity,
		1,
	}
}
