package outline

// NodeBuilderOption is a functional option used to configure a Node during construction.
type NodeBuilderOption func(*nodeImpl)

// WithValidator replaces the WGSL validator run before the pipeline is built.
// The default is shader.Validate. Errors wrapping shader.ErrValidatorLimitation are logged
// and ignored, any other error fails the build.
//
// Parameters:
//   - validate: the validator
//
// Returns:
//   - NodeBuilderOption: a function that sets the validator
func WithValidator(validate func(source string) ([]byte, error)) NodeBuilderOption {
	return func(n *nodeImpl) {
		if validate != nil {
			n.validator = validate
		}
	}
}
