package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMaxDimension is an option builder that sets the largest texture width or height
// kept without downscaling. Values of 0 or less disable downscaling.
//
// Parameters:
//   - pixels: the maximum dimension in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the max dimension option to a loader
func WithMaxDimension(pixels int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxDimension = max(pixels, 0)
	}
}
