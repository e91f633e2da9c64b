package outline

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Buffers holds the per-texel inputs of the outline pass in row-major order.
// Depth holds raw [0, 1] depth-buffer values, Normal the prepass normals (zero for background)
// and Color the tonemapped scene color.
type Buffers struct {
	Width, Height int
	Depth         []float32
	Normal        []mgl32.Vec3
	Color         []mgl32.Vec4
}

// NewBuffers allocates buffers for a width x height target. Depth starts at the far plane.
//
// Parameters:
//   - width: the target width in texels
//   - height: the target height in texels
//
// Returns:
//   - *Buffers: the zeroed buffers
func NewBuffers(width, height int) *Buffers {
	n := max(width, 0) * max(height, 0)
	b := &Buffers{
		Width:  width,
		Height: height,
		Depth:  make([]float32, n),
		Normal: make([]mgl32.Vec3, n),
		Color:  make([]mgl32.Vec4, n),
	}
	for i := range b.Depth {
		b.Depth[i] = 1
	}
	return b
}

// Valid reports whether every buffer holds exactly Width*Height texels.
func (b *Buffers) Valid() bool {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return false
	}
	n := b.Width * b.Height
	return len(b.Depth) == n && len(b.Normal) == n && len(b.Color) == n
}

// Index returns the slice index of texel (x, y).
func (b *Buffers) Index(x, y int) int {
	return y*b.Width + x
}

// Result is the output of Kernel.Apply.
type Result struct {
	// Color is the composited color, one entry per texel.
	Color []mgl32.Vec4
	// Edges flags the texels where an outline was drawn.
	Edges []bool
}

// EdgeCount returns the number of flagged texels.
func (r Result) EdgeCount() int {
	n := 0
	for _, e := range r.Edges {
		if e {
			n++
		}
	}
	return n
}

type kernelImpl struct {
	workers   int
	pool      worker.DynamicWorkerPool
	closeOnce sync.Once
	closed    atomic.Bool
}

// Kernel runs the outline pass on the CPU with the same rules as the outline shader.
// Rows are split into bands processed on a worker pool; the output does not depend on the
// worker count.
type Kernel interface {
	// Apply runs the outline pass over src.
	//
	// Parameters:
	//   - src: the pass inputs
	//   - u: the uniform of the camera being shaded
	//
	// Returns:
	//   - Result: the composited color and the edge mask. A pass-through copy when src is malformed.
	Apply(src *Buffers, u GPUOutlineSettings) Result

	// Workers returns the size of the worker pool.
	Workers() int

	// Close stops the worker pool and ends its goroutines. It is safe to call more than once.
	// Apply still works after Close but shades every row on the calling goroutine.
	Close()
}

var _ Kernel = &kernelImpl{}

// NewKernel creates a Kernel. The worker count defaults to one less than the CPU count.
//
// Parameters:
//   - options: functional options to configure the kernel
//
// Returns:
//   - Kernel: the kernel
func NewKernel(options ...KernelBuilderOption) Kernel {
	k := &kernelImpl{
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(k)
	}
	k.pool = worker.NewDynamicWorkerPool(k.workers, 256, 1*time.Second)
	return k
}

func (k *kernelImpl) Workers() int {
	return k.workers
}

func (k *kernelImpl) Close() {
	k.closeOnce.Do(func() {
		k.closed.Store(true)
		// worker.Stop hands each worker id to whichever worker reads the stop channel first, and a
		// worker that reads a foreign id keeps running. One exit task per worker ends them all.
		for id := range k.workers {
			k.pool.SubmitTask(worker.Task{ID: -1 - id, Do: func() (any, error) {
				runtime.Goexit()
				return nil, nil
			}})
		}
		k.pool.Stop()
	})
}

func (k *kernelImpl) Apply(src *Buffers, u GPUOutlineSettings) Result {
	if !src.Valid() {
		Logger().Warn("outline kernel: malformed buffers, passing color through")
		var color []mgl32.Vec4
		if src != nil {
			color = append(color, src.Color...)
		}
		return Result{Color: color, Edges: make([]bool, len(color))}
	}

	out := Result{
		Color: make([]mgl32.Vec4, len(src.Color)),
		Edges: make([]bool, len(src.Color)),
	}

	if k.closed.Load() {
		shadeRows(src, u, out, 0, src.Height)
		return out
	}

	bands := min(k.workers*4, src.Height)
	rowsPerBand := (src.Height + bands - 1) / bands

	// the pool only runs tasks, the WaitGroup is the per-call barrier
	var wg sync.WaitGroup
	for id, y0 := 0, 0; y0 < src.Height; id, y0 = id+1, y0+rowsPerBand {
		y1 := min(y0+rowsPerBand, src.Height)
		wg.Add(1)
		k.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				shadeRows(src, u, out, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()

	Logger().Debug("outline kernel applied", "width", src.Width, "height", src.Height, "bands", bands)
	return out
}

// shadeRows writes rows [y0, y1) of out.
func shadeRows(src *Buffers, u GPUOutlineSettings, out Result, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < src.Width; x++ {
			i := src.Index(x, y)
			out.Color[i], out.Edges[i] = ShadePixel(src, u, x, y)
		}
	}
}

// neighbourOffsets is the 4-neighbour cross sampled around each texel, in units of the step.
var neighbourOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ShadePixel computes the outline pass for one texel.
//
// Parameters:
//   - src: the pass inputs, assumed valid
//   - u: the camera uniform
//   - x, y: the texel coordinates
//
// Returns:
//   - mgl32.Vec4: the composited color
//   - bool: whether the texel is an edge
func ShadePixel(src *Buffers, u GPUOutlineSettings, x, y int) (mgl32.Vec4, bool) {
	center := src.Index(x, y)
	in := src.Color[center]
	if !IsEdge(src, u, x, y) {
		return in, false
	}

	oc := mgl32.Vec4(u.Color)
	if u.AdaptiveThreshold < 1 && common.Luminance(in[0], in[1], in[2]) > u.AdaptiveThreshold {
		oc = mgl32.Vec4{1 - oc[0], 1 - oc[1], 1 - oc[2], oc[3]}
	}

	a := oc[3]
	rgb := in.Vec3().Mul(1 - a).Add(oc.Vec3().Mul(a))
	return rgb.Vec4(in[3]), true
}

// IsEdge reports whether any neighbour of (x, y) exceeds the normal or depth threshold.
//
// Parameters:
//   - src: the pass inputs, assumed valid
//   - u: the camera uniform
//   - x, y: the texel coordinates
//
// Returns:
//   - bool: whether the texel is an edge
func IsEdge(src *Buffers, u GPUOutlineSettings, x, y int) bool {
	center := src.Index(x, y)
	d0 := linearDepth(u, src.Depth[center])
	n0 := src.Normal[center]

	step := int(math.RoundToEven(float64(u.Weight)))
	for _, o := range neighbourOffsets {
		nx := common.Clamp(x+o[0]*step, 0, src.Width-1)
		ny := common.Clamp(y+o[1]*step, 0, src.Height-1)
		i := src.Index(nx, ny)

		if NormalDivergence(n0, src.Normal[i]) > u.NormalThreshold {
			return true
		}
		if d := linearDepth(u, src.Depth[i]) - d0; float32(math.Abs(float64(d))) > u.DepthThreshold {
			return true
		}
	}
	return false
}

// NormalDivergence returns 1 - dot(normalize(a), normalize(b)). It is 0 when the vectors are
// equal or either has zero length.
//
// Parameters:
//   - a, b: the normals to compare
//
// Returns:
//   - float32: the divergence in [0, 2]
func NormalDivergence(a, b mgl32.Vec3) float32 {
	if a == b || a.LenSqr() == 0 || b.LenSqr() == 0 {
		return 0
	}
	return 1 - a.Normalize().Dot(b.Normalize())
}

// linearDepth converts a depth sample to scene units for the projection stored in u.
// Orthographic samples are scaled without the near offset, it cancels in a difference.
func linearDepth(u GPUOutlineSettings, d float32) float32 {
	if u.ProjectionKind == gpuProjectionOrthographic {
		return d * u.DepthRange
	}
	return common.LinearizePerspectiveDepth(d, u.CameraNear, u.CameraFar)
}
