package scene

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier, used as the prefix of GPU resource labels.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = common.Coalesce(name, s.name)
	}
}

// WithSphere sets the panorama sphere geometry. Segment counts below the minimum
// for a closed sphere are raised to it when the mesh is built.
//
// Parameters:
//   - radius: sphere radius in world units
//   - widthSegments: number of horizontal segments
//   - heightSegments: number of vertical segments
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSphere(radius float32, widthSegments, heightSegments int) SceneBuilderOption {
	return func(s *scene) {
		if radius > 0 {
			s.radius = radius
		}
		s.widthSegments = widthSegments
		s.heightSegments = heightSegments
	}
}

// WithLight sets the ambient light tinting the panorama. Defaults to a white light
// at full intensity.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}
