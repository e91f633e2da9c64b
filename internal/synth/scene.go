// Package synth ray casts small analytic scenes into the depth, normal and color buffers the
// outline kernel consumes, standing in for the prepasses of a GPU main pass.
package synth

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownScene is returned by New for a name that is not in Names.
var ErrUnknownScene = errors.New("synth: unknown scene")

var (
	background = mgl32.Vec4{0.08, 0.09, 0.12, 1}
	lightDir   = mgl32.Vec3{0.4, 0.6, 1}.Normalize()
)

const ambient = 0.25

// Scene is a set of shapes in view space. The camera sits at the origin looking down -Z.
type Scene struct {
	name   string
	shapes []shape
}

// builtins maps a scene name to its constructor.
var builtins = map[string]func() []shape{
	"plane": func() []shape {
		return []shape{
			plane{normal: mgl32.Vec3{0, 0, 1}, offset: -6, albedo: mgl32.Vec3{0.6, 0.6, 0.6}},
		}
	},
	"boxes": func() []shape {
		return []shape{
			plane{normal: mgl32.Vec3{0, 0, 1}, offset: -12, albedo: mgl32.Vec3{0.5, 0.5, 0.55}},
			box{min: mgl32.Vec3{-2.5, -1, -7}, max: mgl32.Vec3{-1, 0.5, -5.5}, albedo: mgl32.Vec3{0.8, 0.3, 0.2}},
			box{min: mgl32.Vec3{-0.5, -1.5, -6.5}, max: mgl32.Vec3{1, 0, -5}, albedo: mgl32.Vec3{0.2, 0.7, 0.3}},
			box{min: mgl32.Vec3{1.5, -0.5, -8}, max: mgl32.Vec3{3, 1.5, -6.5}, albedo: mgl32.Vec3{0.2, 0.4, 0.9}},
		}
	},
	"sphere": func() []shape {
		return []shape{
			plane{normal: mgl32.Vec3{0, 0, 1}, offset: -10, albedo: mgl32.Vec3{0.5, 0.5, 0.55}},
			sphere{center: mgl32.Vec3{0, 0, -6}, radius: 2, albedo: mgl32.Vec3{0.9, 0.85, 0.7}},
		}
	},
	"crease": func() []shape {
		left := mgl32.Vec3{0.2, 0, 1}.Normalize()
		right := mgl32.Vec3{-0.2, 0, 1}.Normalize()
		inf := float32(math.Inf(1))
		return []shape{
			plane{normal: left, offset: left.Dot(mgl32.Vec3{0, 0, -6}), minX: -inf, maxX: 0, boundedInX: true, albedo: mgl32.Vec3{0.7, 0.7, 0.7}},
			plane{normal: right, offset: right.Dot(mgl32.Vec3{0, 0, -6}), minX: 0, maxX: inf, boundedInX: true, albedo: mgl32.Vec3{0.7, 0.7, 0.7}},
		}
	},
}

// Names returns the built-in scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New returns the built-in scene called name.
//
// Parameters:
//   - name: one of Names()
//
// Returns:
//   - *Scene: the scene
//   - error: ErrUnknownScene for any other name
func New(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, want one of %v", ErrUnknownScene, name, Names())
	}
	return &Scene{name: name, shapes: build()}, nil
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Render casts one ray per texel and fills the outline inputs: raw depth written the way p
// would write it, the surface normal, and a lambert shaded color. Rays that miss or fall
// outside [Near, Far] leave the far depth, a zero normal and the background color.
//
// Parameters:
//   - width, height: the target size in texels
//   - p: the camera projection
//
// Returns:
//   - *outline.Buffers: the pass inputs
func (s *Scene) Render(width, height int, p camera.Projection) *outline.Buffers {
	b := outline.NewBuffers(width, height)
	if width <= 0 || height <= 0 {
		return b
	}

	aspect := p.Aspect
	if aspect <= 0 {
		aspect = float32(width) / float32(height)
	}
	tanHalf := float32(math.Tan(float64(p.FovY) / 2))

	for y := 0; y < height; y++ {
		ndcY := 1 - 2*(float32(y)+0.5)/float32(height)
		for x := 0; x < width; x++ {
			ndcX := 2*(float32(x)+0.5)/float32(width) - 1

			var origin, dir mgl32.Vec3
			if p.Kind == camera.ProjectionOrthographic {
				origin = mgl32.Vec3{ndcX * p.Height / 2 * aspect, ndcY * p.Height / 2, 0}
				dir = mgl32.Vec3{0, 0, -1}
			} else {
				dir = mgl32.Vec3{ndcX * tanHalf * aspect, ndcY * tanHalf, -1}
			}

			i := b.Index(x, y)
			b.Color[i] = background
			h, ok := s.cast(origin, dir)
			if !ok {
				continue
			}
			// dir.z is -1, so t is the view-space distance
			if h.t < p.Near || (p.Far > p.Near && h.t > p.Far) {
				continue
			}
			b.Depth[i] = p.DepthSample(h.t)
			b.Normal[i] = h.normal
			shade := ambient + (1-ambient)*max(h.normal.Dot(lightDir), 0)
			b.Color[i] = h.albedo.Mul(shade).Vec4(1)
		}
	}
	return b
}

// cast returns the nearest hit along the ray.
func (s *Scene) cast(origin, dir mgl32.Vec3) (hit, bool) {
	var best hit
	found := false
	for _, sh := range s.shapes {
		if h, ok := sh.intersect(origin, dir); ok && (!found || h.t < best.t) {
			best, found = h, true
		}
	}
	return best, found
}
