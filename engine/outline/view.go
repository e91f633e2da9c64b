package outline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

type viewImpl struct {
	mu  *sync.Mutex
	cam camera.Camera

	settings     OutlineSettings
	lastRevision uint64

	staged    [MaxFramesInFlight]GPUOutlineSettings
	providers [MaxFramesInFlight]bind_group_provider.BindGroupProvider
}

// View is the outline state of one camera: its settings, the uniform staged per frame slot,
// and the bind group providers that hold those uniforms on the GPU.
type View interface {
	// Camera returns the outlined camera.
	Camera() camera.Camera

	// Settings returns a copy of the current settings, including the cached near plane.
	Settings() OutlineSettings

	// SetSettings replaces the user facing settings. The cached near plane is kept.
	//
	// Parameters:
	//   - s: the new settings
	//
	// Returns:
	//   - error: a validation error, in which case nothing changes
	SetSettings(s OutlineSettings) error

	// Staged returns the uniform last uploaded into the frame slot of frameIndex.
	//
	// Parameters:
	//   - frameIndex: the frame index
	//
	// Returns:
	//   - GPUOutlineSettings: the staged uniform
	Staged(frameIndex uint64) GPUOutlineSettings

	// Provider returns the bind group provider holding the uniform of the frame slot of frameIndex.
	//
	// Parameters:
	//   - frameIndex: the frame index
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	Provider(frameIndex uint64) bind_group_provider.BindGroupProvider

	// Release frees the GPU resources of every frame slot.
	Release()
}

var _ View = &viewImpl{}

func newView(cam camera.Camera, settings OutlineSettings) *viewImpl {
	v := &viewImpl{
		mu:       &sync.Mutex{},
		cam:      cam,
		settings: settings,
	}
	for k := range v.providers {
		v.providers[k] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("outline_view_%d_frame_%d", cam.ID(), k))
	}
	return v
}

func slot(frameIndex uint64) int {
	return int(frameIndex % MaxFramesInFlight)
}

func (v *viewImpl) Camera() camera.Camera {
	return v.cam
}

func (v *viewImpl) Settings() OutlineSettings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings
}

func (v *viewImpl) SetSettings(s OutlineSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.settings = s.withCameraNear(v.settings.cameraNear)
	return nil
}

func (v *viewImpl) Staged(frameIndex uint64) GPUOutlineSettings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.staged[slot(frameIndex)]
}

func (v *viewImpl) Provider(frameIndex uint64) bind_group_provider.BindGroupProvider {
	return v.providers[slot(frameIndex)]
}

func (v *viewImpl) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.providers {
		p.Release()
	}
}

// sync copies the camera's near plane into the settings when its projection changed.
func (v *viewImpl) sync() {
	rev := v.cam.ProjectionRevision()

	v.mu.Lock()
	defer v.mu.Unlock()
	if rev == v.lastRevision {
		return
	}
	v.lastRevision = rev

	p := v.cam.Projection()
	if p.Kind != camera.ProjectionPerspective {
		Logger().Debug("outline sync: projection is not perspective, keeping cached near",
			"camera", v.cam.ID(), "projection", p.Kind, "near", v.settings.cameraNear)
		return
	}
	v.settings = v.settings.withCameraNear(p.Near)
	Logger().Debug("outline sync: near plane refreshed", "camera", v.cam.ID(), "near", p.Near)
}

// stage packs the uniform for frameIndex and returns its buffer write.
func (v *viewImpl) stage(frameIndex uint64) bind_group_provider.BufferWrite {
	projection := v.cam.Projection()

	v.mu.Lock()
	defer v.mu.Unlock()
	k := slot(frameIndex)
	v.staged[k] = NewGPUOutlineSettings(v.settings, projection)
	return bind_group_provider.BufferWrite{
		Provider: v.providers[k],
		Binding:  0,
		Data:     v.staged[k].Marshal(),
	}
}
