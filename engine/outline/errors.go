package outline

import "errors"

var (
	// ErrNegativeWeight is returned when an outline weight is below zero.
	ErrNegativeWeight = errors.New("outline: weight must be >= 0")

	// ErrAdaptiveRange is returned when the adaptive threshold leaves [0, 1].
	ErrAdaptiveRange = errors.New("outline: adaptive threshold must be in [0, 1]")

	// ErrMissingDepthPrepass is returned by Attach when the camera has no depth prepass.
	ErrMissingDepthPrepass = errors.New("outline: camera has no depth prepass")

	// ErrMissingNormalPrepass is returned by Attach when the camera has no normal prepass.
	ErrMissingNormalPrepass = errors.New("outline: camera has no normal prepass")

	// ErrMissingDeferredPrepass is returned by Attach when the effect requires a deferred
	// prepass and the camera has none.
	ErrMissingDeferredPrepass = errors.New("outline: camera has no deferred prepass")

	// ErrMultisampled is returned by Attach when the camera renders with more than one sample per texel.
	ErrMultisampled = errors.New("outline: camera must render with MSAA off")

	// ErrAlreadyAttached is returned by Attach when the camera already has an outline view.
	ErrAlreadyAttached = errors.New("outline: camera already has an outline")

	// ErrNilCamera is returned by Attach for a nil camera.
	ErrNilCamera = errors.New("outline: nil camera")

	// ErrPipelineBuild wraps every failure of the one-time pipeline build.
	ErrPipelineBuild = errors.New("outline: pipeline build failed")
)
