package camera

import (
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

// DefaultSampleCount matches the renderer's default of 4x multisampling.
const DefaultSampleCount uint32 = 4

type cameraImpl struct {
	mu *sync.Mutex

	id uint64

	up       [3]float32
	position [3]float32
	target   [3]float32

	projection Projection
	revision   uint64

	prepasses   Prepass
	sampleCount uint32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera defines the interface for the camera system.
// The camera holds its projection, its look-at transform, and the capabilities it requests
// from the renderer (prepasses and multisampling). Matrices are recomputed on every mutation.
type Camera interface {
	// ID returns the unique, process-wide identifier of this camera.
	//
	// Returns:
	//   - uint64: the camera id
	ID() uint64

	// Position returns the world-space eye position.
	//
	// Returns:
	//   - [3]float32: the eye position
	Position() [3]float32

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - [3]float32: the look-at target
	Target() [3]float32

	// Projection returns a copy of the current projection parameters.
	//
	// Returns:
	//   - Projection: the projection
	Projection() Projection

	// ProjectionRevision returns a counter that increases every time the projection changes.
	// Observers compare it against the last value they saw to detect changes without
	// recomputing anything every frame. A freshly created camera reports 1.
	//
	// Returns:
	//   - uint64: the projection revision
	ProjectionRevision() uint64

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Prepasses returns the prepasses this camera requests.
	//
	// Returns:
	//   - Prepass: the requested prepass flags
	Prepasses() Prepass

	// SampleCount returns the multisample count of the camera's main pass. 1 means MSAA off.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// BindGroupProvider returns the provider holding the camera uniform buffer, created by NewCamera.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Uniform builds the GPU camera uniform from the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready to be marshalled
	Uniform() GPUCameraUniform

	// SetLookAt moves the camera to position and points it at target.
	//
	// Parameters:
	//   - position: world-space eye position
	//   - target: world-space look-at point
	SetLookAt(position, target [3]float32)

	// SetProjection replaces the projection and bumps the projection revision.
	//
	// Parameters:
	//   - p: the new projection
	SetProjection(p Projection)

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetPrepasses replaces the requested prepass flags.
	//
	// Parameters:
	//   - p: the prepass flags
	SetPrepasses(p Prepass)

	// SetSampleCount sets the multisample count of the camera's main pass.
	//
	// Parameters:
	//   - count: the sample count, 1 disables MSAA
	SetSampleCount(count uint32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a default perspective projection looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	id := cameraCount.Add(1) - 1
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		id:          id,
		up:          [3]float32{0, 1, 0},
		position:    [3]float32{0, 0, 5},
		target:      [3]float32{0, 0, 0},
		projection:  PerspectiveProjection(45.0*(math.Pi/180.0), 1.0, 0.1, 100.0),
		revision:    1,
		sampleCount: DefaultSampleCount,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(id, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) ID() uint64 {
	return c.id
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ProjectionRevision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.FovY
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Far
}

func (c *cameraImpl) Prepasses() Prepass {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepasses
}

func (c *cameraImpl) SampleCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sampleCount
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position,
	}
}

func (c *cameraImpl) SetLookAt(position, target [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) SetProjection(p Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = p
	c.projectionChanged()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.FovY = fov
	c.projectionChanged()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.Aspect = aspect
	c.projectionChanged()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.Near = near
	c.projectionChanged()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection.Far = far
	c.projectionChanged()
}

func (c *cameraImpl) SetPrepasses(p Prepass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepasses = p
}

func (c *cameraImpl) SetSampleCount(count uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampleCount = max(count, 1)
}

// projectionChanged bumps the revision and recomputes matrices.
// Caller must hold the mutex.
func (c *cameraImpl) projectionChanged() {
	c.revision++
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	c.projection.Matrix(c.projectionMatrix[:])

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
