package outline

// KernelBuilderOption is a functional option used to configure a Kernel during construction.
type KernelBuilderOption func(*kernelImpl)

// WithWorkers sets the number of pool workers that shade row bands. Values below 1 are treated as 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - KernelBuilderOption: a function that sets the worker count
func WithWorkers(n int) KernelBuilderOption {
	return func(k *kernelImpl) {
		k.workers = max(n, 1)
	}
}
