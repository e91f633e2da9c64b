package camera

type CameraBuilderOption func(*cameraImpl)

// WithLookAt places the camera at position looking at target.
//
// Parameters:
//   - position: world-space eye position
//   - target: world-space look-at point
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's transform
func WithLookAt(position, target [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
		c.target = target
	}
}

// WithProjection replaces the whole projection.
//
// Parameters:
//   - p: the projection to use
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = p
	}
}

// WithPerspective sets a perspective projection.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - aspect: the aspect ratio
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets a perspective projection
func WithPerspective(fov, aspect, near, far float32) CameraBuilderOption {
	return WithProjection(PerspectiveProjection(fov, aspect, near, far))
}

// WithOrthographic sets an orthographic projection.
//
// Parameters:
//   - height: vertical extent of the view volume
//   - aspect: the aspect ratio
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets an orthographic projection
func WithOrthographic(height, aspect, near, far float32) CameraBuilderOption {
	return WithProjection(OrthographicProjection(height, aspect, near, far))
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection.FovY = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection.Aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection.Near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection.Far = far
	}
}

// WithPrepasses adds prepass flags to the camera's requested passes.
// Flags accumulate across multiple options.
//
// Parameters:
//   - p: the prepass flags to add
//
// Returns:
//   - CameraBuilderOption: functional option to request prepasses
func WithPrepasses(p Prepass) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.prepasses |= p
	}
}

// WithSampleCount sets the multisample count of the camera's main pass.
// Values below 1 are treated as 1 (MSAA off).
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - CameraBuilderOption: functional option to set the sample count
func WithSampleCount(count uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sampleCount = max(count, 1)
	}
}
