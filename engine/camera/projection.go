package camera

import (
	"github.com/Carmen-Shannon/oxy-outline/common"
)

// ProjectionKind identifies how a camera maps view space into clip space.
type ProjectionKind uint32

const (
	// ProjectionPerspective is a pinhole projection with a vertical field of view.
	ProjectionPerspective ProjectionKind = iota

	// ProjectionOrthographic is a parallel projection with a fixed vertical extent.
	ProjectionOrthographic
)

// String returns the lowercase name of the projection kind.
func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Projection describes the camera's projection parameters.
// FovY is only read for perspective projections and Height only for orthographic ones.
type Projection struct {
	Kind   ProjectionKind
	FovY   float32 // vertical field of view in radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
	Height float32 // vertical extent of the orthographic view volume
}

// PerspectiveProjection returns a perspective Projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width / height)
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - Projection: the perspective projection
func PerspectiveProjection(fovY, aspect, near, far float32) Projection {
	return Projection{Kind: ProjectionPerspective, FovY: fovY, Aspect: aspect, Near: near, Far: far}
}

// OrthographicProjection returns an orthographic Projection centered on the view axis.
//
// Parameters:
//   - height: vertical extent of the view volume in scene units
//   - aspect: viewport aspect ratio (width / height)
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - Projection: the orthographic projection
func OrthographicProjection(height, aspect, near, far float32) Projection {
	return Projection{Kind: ProjectionOrthographic, Height: height, Aspect: aspect, Near: near, Far: far}
}

// Matrix writes the column-major projection matrix for p into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (p Projection) Matrix(out []float32) {
	switch p.Kind {
	case ProjectionOrthographic:
		halfH := p.Height / 2
		halfW := halfH * p.Aspect
		common.Orthographic(out, -halfW, halfW, -halfH, halfH, p.Near, p.Far)
	default:
		common.Perspective(out, p.FovY, p.Aspect, p.Near, p.Far)
	}
}

// LinearizeDepth converts a [0, 1] depth-buffer sample written with this projection
// into view-space distance.
//
// Parameters:
//   - d: the depth sample
//
// Returns:
//   - float32: distance from the camera in scene units
func (p Projection) LinearizeDepth(d float32) float32 {
	if p.Kind == ProjectionOrthographic {
		return common.LinearizeOrthographicDepth(d, p.Near, p.Far)
	}
	return common.LinearizePerspectiveDepth(d, p.Near, p.Far)
}

// DepthSample is the inverse of LinearizeDepth: it returns the [0, 1] depth-buffer value this
// projection writes for a surface z scene units in front of the camera.
//
// Parameters:
//   - z: view-space distance, clamped to [Near, Far] (Far is ignored for an infinite far plane)
//
// Returns:
//   - float32: the depth sample
func (p Projection) DepthSample(z float32) float32 {
	z = max(z, p.Near)
	if p.Kind == ProjectionOrthographic {
		if p.Far <= p.Near {
			return 0
		}
		return common.Clamp((z-p.Near)/(p.Far-p.Near), 0, 1)
	}
	if p.Far <= p.Near {
		return 1 - p.Near/z
	}
	z = min(z, p.Far)
	return p.Far * (z - p.Near) / (z * (p.Far - p.Near))
}
