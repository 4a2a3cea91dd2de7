package loader

// IngestorBuilderOption is a functional option for configuring an Ingestor via NewIngestor.
type IngestorBuilderOption func(*ingestor)

// WithWorkers sets how many images may be read and decoded concurrently.
//
// Parameters:
//   - n: the maximum worker count (values below 1 are raised to 1)
//
// Returns:
//   - IngestorBuilderOption: a function that applies the worker count to an ingestor
func WithWorkers(n int) IngestorBuilderOption {
	return func(i *ingestor) {
		i.workers = max(n, 1)
	}
}
