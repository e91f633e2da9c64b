package outline

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

// MaxFramesInFlight is the number of frame slots each view keeps a settings uniform for.
const MaxFramesInFlight = 3

type effectImpl struct {
	mu              *sync.Mutex
	views           map[uint64]*viewImpl
	requireDeferred bool
}

// Effect owns one outline View per camera that opted in.
//
// Per frame the host calls Sync in the update phase, then Upload in the extract phase,
// then runs the render graph containing the outline Node.
type Effect interface {
	// Attach validates the camera's capabilities and creates its outline view.
	//
	// Parameters:
	//   - cam: the camera to outline
	//   - settings: the initial outline settings
	//
	// Returns:
	//   - View: the new view
	//   - error: a settings error, a missing prepass, ErrMultisampled or ErrAlreadyAttached
	Attach(cam camera.Camera, settings OutlineSettings) (View, error)

	// Detach removes the camera's view and releases its GPU resources.
	//
	// Parameters:
	//   - cam: the camera to detach
	//
	// Returns:
	//   - bool: whether the camera had a view
	Detach(cam camera.Camera) bool

	// View returns the camera's view, or nil.
	View(cam camera.Camera) View

	// Views returns every view ordered by camera ID.
	Views() []View

	// Sync refreshes the cached near plane of every view whose camera projection changed
	// since the last call. Orthographic projections leave the cached value unchanged.
	Sync()

	// Upload stages every view's uniform into the frame slot of frameIndex and returns the
	// buffer writes for the renderer.
	//
	// Parameters:
	//   - frameIndex: the index of the frame being extracted
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one write per view
	Upload(frameIndex uint64) []bind_group_provider.BufferWrite

	// CameraOptions returns the camera builder options that satisfy every Attach precondition.
	//
	// Returns:
	//   - []camera.CameraBuilderOption: prepasses and single sampling
	CameraOptions() []camera.CameraBuilderOption

	// RequireDeferred reports whether Attach demands a deferred prepass.
	RequireDeferred() bool
}

var _ Effect = &effectImpl{}

// NewEffect creates an Effect with no views.
//
// Parameters:
//   - options: functional options to configure the effect
//
// Returns:
//   - Effect: the effect
func NewEffect(options ...EffectBuilderOption) Effect {
	e := &effectImpl{
		mu:    &sync.Mutex{},
		views: make(map[uint64]*viewImpl),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *effectImpl) requiredPrepasses() camera.Prepass {
	p := camera.PrepassDepth | camera.PrepassNormal
	if e.requireDeferred {
		p |= camera.PrepassDeferred
	}
	return p
}

func (e *effectImpl) Attach(cam camera.Camera, settings OutlineSettings) (View, error) {
	if cam == nil {
		return nil, ErrNilCamera
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	prepasses := cam.Prepasses()
	switch {
	case !prepasses.Has(camera.PrepassDepth):
		return nil, fmt.Errorf("camera %d: %w", cam.ID(), ErrMissingDepthPrepass)
	case !prepasses.Has(camera.PrepassNormal):
		return nil, fmt.Errorf("camera %d: %w", cam.ID(), ErrMissingNormalPrepass)
	case e.requireDeferred && !prepasses.Has(camera.PrepassDeferred):
		return nil, fmt.Errorf("camera %d: %w", cam.ID(), ErrMissingDeferredPrepass)
	}
	if n := cam.SampleCount(); n > 1 {
		return nil, fmt.Errorf("camera %d has %d samples: %w", cam.ID(), n, ErrMultisampled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.views[cam.ID()]; exists {
		return nil, fmt.Errorf("camera %d: %w", cam.ID(), ErrAlreadyAttached)
	}

	v := newView(cam, settings.withCameraNear(0))
	e.views[cam.ID()] = v
	Logger().Debug("outline attached", "camera", cam.ID(), "projection", cam.Projection().Kind)
	return v, nil
}

func (e *effectImpl) Detach(cam camera.Camera) bool {
	if cam == nil {
		return false
	}
	e.mu.Lock()
	v, exists := e.views[cam.ID()]
	delete(e.views, cam.ID())
	e.mu.Unlock()

	if exists {
		v.Release()
		Logger().Debug("outline detached", "camera", cam.ID())
	}
	return exists
}

func (e *effectImpl) View(cam camera.Camera) View {
	if cam == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.views[cam.ID()]; ok {
		return v
	}
	return nil
}

func (e *effectImpl) Views() []View {
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.views))
	for id := range e.views {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	views := make([]View, len(ids))
	for i, id := range ids {
		views[i] = e.views[id]
	}
	e.mu.Unlock()
	return views
}

func (e *effectImpl) Sync() {
	for _, v := range e.Views() {
		v.(*viewImpl).sync()
	}
}

func (e *effectImpl) Upload(frameIndex uint64) []bind_group_provider.BufferWrite {
	views := e.Views()
	writes := make([]bind_group_provider.BufferWrite, 0, len(views))
	for _, v := range views {
		writes = append(writes, v.(*viewImpl).stage(frameIndex))
	}
	return writes
}

func (e *effectImpl) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithPrepasses(e.requiredPrepasses()),
		camera.WithSampleCount(1),
	}
}

func (e *effectImpl) RequireDeferred() bool {
	return e.requireDeferred
}
