// Package config loads viewer settings from a YAML file layered over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ToggleVisibility controls when the VR toggle accepts input.
type ToggleVisibility string

const (
	// ToggleAlways keeps the toggle available from startup.
	ToggleAlways ToggleVisibility = "always"

	// ToggleAfterFirstLoad enables the toggle once the first texture has been bound.
	ToggleAfterFirstLoad ToggleVisibility = "after_first_load"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Window holds the initial window settings.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Camera holds the perspective settings and the starting distance from the sphere center.
type Camera struct {
	FovDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Distance   float32 `yaml:"distance"`
}

// Controls holds the drag-orbit controller settings.
type Controls struct {
	EnableZoom    bool    `yaml:"enable_zoom"`
	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
}

// Sphere holds the panorama sphere geometry.
type Sphere struct {
	Radius         float32 `yaml:"radius"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
}

// Texture holds image ingestion limits.
type Texture struct {
	MaxDimension int `yaml:"max_dimension"`
}

// UI holds the toggle and indicator policy.
type UI struct {
	ToggleVisibility ToggleVisibility `yaml:"toggle_visibility"`
}

// XR selects the presentation platform.
type XR struct {
	Stereo bool    `yaml:"stereo"`
	IPD    float32 `yaml:"ipd"`
}

// Render holds the surface settings.
type Render struct {
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`
	FrameLimit int  `yaml:"frame_limit"`

	// Brightness scales every texel of the panorama; 1 leaves the image untouched.
	Brightness float32 `yaml:"brightness"`
}

// Debug holds diagnostic switches.
type Debug struct {
	Profile bool `yaml:"profile"`
}

// Config is the complete viewer configuration.
type Config struct {
	Window   Window   `yaml:"window"`
	Camera   Camera   `yaml:"camera"`
	Controls Controls `yaml:"controls"`
	Sphere   Sphere   `yaml:"sphere"`
	Texture  Texture  `yaml:"texture"`
	UI       UI       `yaml:"ui"`
	XR       XR       `yaml:"xr"`
	Render   Render   `yaml:"render"`
	Debug    Debug    `yaml:"debug"`
	Workers  int      `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-pano",
			Width:  1280,
			Height: 720,
		},
		Camera: Camera{
			FovDegrees: 75,
			Near:       0.1,
			Far:        5000,
			Distance:   0.1,
		},
		Controls: Controls{
			EnableZoom:    false,
			EnableDamping: false,
			DampingFactor: 0.05,
			RotateSpeed:   0.005,
		},
		Sphere: Sphere{
			Radius:         100,
			WidthSegments:  60,
			HeightSegments: 40,
		},
		Texture: Texture{
			MaxDimension: 8192,
		},
		UI: UI{
			ToggleVisibility: ToggleAfterFirstLoad,
		},
		XR: XR{
			Stereo: true,
			IPD:    0.064,
		},
		Render: Render{
			VSync:      true,
			MSAA:       4,
			Brightness: 1,
		},
		Workers: 2,
	}
}

// Load reads the YAML file at path over Default. A missing file yields the defaults.
//
// Parameters:
//   - path: the config file path (empty for defaults only)
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the merged configuration
//   - error: error if decoding or validation fails
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
//
// Returns:
//   - error: an error wrapping ErrInvalid that names the first bad key
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return fmt.Errorf("%w: camera.fov_degrees must be in (0, 180), got %g", ErrInvalid, c.Camera.FovDegrees)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip planes must satisfy 0 < near < far, got %g/%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.Distance <= 0 || c.Camera.Distance >= c.Sphere.Radius:
		return fmt.Errorf("%w: camera.distance must be inside the sphere, got %g", ErrInvalid, c.Camera.Distance)
	case c.Controls.EnableDamping && (c.Controls.DampingFactor <= 0 || c.Controls.DampingFactor > 1):
		return fmt.Errorf("%w: controls.damping_factor must be in (0, 1], got %g", ErrInvalid, c.Controls.DampingFactor)
	case c.Controls.RotateSpeed <= 0:
		return fmt.Errorf("%w: controls.rotate_speed must be positive, got %g", ErrInvalid, c.Controls.RotateSpeed)
	case c.Sphere.Radius <= 0 || c.Sphere.Radius >= c.Camera.Far:
		return fmt.Errorf("%w: sphere.radius must be in (0, camera.far), got %g", ErrInvalid, c.Sphere.Radius)
	case c.Sphere.WidthSegments < 3 || c.Sphere.HeightSegments < 2:
		return fmt.Errorf("%w: sphere needs at least 3x2 segments, got %dx%d", ErrInvalid, c.Sphere.WidthSegments, c.Sphere.HeightSegments)
	case c.Texture.MaxDimension < 0:
		return fmt.Errorf("%w: texture.max_dimension must not be negative, got %d", ErrInvalid, c.Texture.MaxDimension)
	case c.UI.ToggleVisibility != ToggleAlways && c.UI.ToggleVisibility != ToggleAfterFirstLoad:
		return fmt.Errorf("%w: ui.toggle_visibility must be %q or %q, got %q", ErrInvalid, ToggleAlways, ToggleAfterFirstLoad, c.UI.ToggleVisibility)
	case c.XR.IPD < 0:
		return fmt.Errorf("%w: xr.ipd must not be negative, got %g", ErrInvalid, c.XR.IPD)
	case c.Render.MSAA != 1 && c.Render.MSAA != 4:
		return fmt.Errorf("%w: render.msaa must be 1 or 4, got %d", ErrInvalid, c.Render.MSAA)
	case c.Render.FrameLimit < 0:
		return fmt.Errorf("%w: render.frame_limit must not be negative, got %d", ErrInvalid, c.Render.FrameLimit)
	case c.Render.Brightness <= 0:
		return fmt.Errorf("%w: render.brightness must be positive, got %g", ErrInvalid, c.Render.Brightness)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// ZoomBounds returns the orbit radius range for the camera controller. The camera starts at
// the minimum; zooming out stops halfway to the sphere wall unless the configured distance
// already lies beyond it.
//
// Returns:
//   - minRadius: the configured camera distance
//   - maxRadius: the larger of the camera distance and half the sphere radius
func (c Config) ZoomBounds() (minRadius, maxRadius float32) {
	return c.Camera.Distance, max(c.Camera.Distance, c.Sphere.Radius/2)
}
