package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// ParseMSAA maps a configured sample count to a supported MSAASampleCount.
// Anything other than 4 disables MSAA.
//
// Parameters:
//   - samples: the configured sample count
//
// Returns:
//   - MSAASampleCount: MSAA4x or MSAAOff
func ParseMSAA(samples int) MSAASampleCount {
	if samples == int(MSAA4x) {
		return MSAA4x
	}
	return MSAAOff
}

// SamplerStagingData holds sampler settings pending GPU creation. The zero value samples
// linearly and clamps to the edge in both directions.
type SamplerStagingData struct {
	RepeatU bool // wrap horizontally instead of clamping
	RepeatV bool // wrap vertically instead of clamping
	Nearest bool // point sampling instead of linear filtering
}

// AddressModes returns the U and V address modes.
func (s SamplerStagingData) AddressModes() (u, v wgpu.AddressMode) {
	u, v = wgpu.AddressModeClampToEdge, wgpu.AddressModeClampToEdge
	if s.RepeatU {
		u = wgpu.AddressModeRepeat
	}
	if s.RepeatV {
		v = wgpu.AddressModeRepeat
	}
	return u, v
}

// FilterMode returns the magnification and minification filter.
func (s SamplerStagingData) FilterMode() wgpu.FilterMode {
	if s.Nearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
