package outline

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
)

// GPUOutlineSettingsSource is the canonical WGSL definition of the OutlineSettings struct.
// Matches GPUOutlineSettings layout exactly (48 bytes).
//
//go:embed assets/outline_settings.wgsl
var GPUOutlineSettingsSource string

// Projection kinds as stored in GPUOutlineSettings.ProjectionKind.
const (
	gpuProjectionPerspective  uint32 = 0
	gpuProjectionOrthographic uint32 = 1
)

// GPUOutlineSettings is the uniform read by the outline shader and by Kernel.
// Size: 48 bytes (std140 / std430 aligned).
type GPUOutlineSettings struct {
	Color             [4]float32 // offset  0: outline color (vec4<f32>)
	Weight            float32    // offset 16
	NormalThreshold   float32    // offset 20
	DepthThreshold    float32    // offset 24
	AdaptiveThreshold float32    // offset 28
	CameraNear        float32    // offset 32: cached perspective near plane
	CameraFar         float32    // offset 36: far plane, <= near for an infinite far plane
	DepthRange        float32    // offset 40: far - near of an orthographic camera
	ProjectionKind    uint32     // offset 44: 0 perspective, 1 orthographic
}

// NewGPUOutlineSettings packs settings and the camera's current projection into the uniform.
// The near plane always comes from the settings' cached value, not from the projection.
//
// Parameters:
//   - s: the outline settings
//   - p: the camera projection at extraction time
//
// Returns:
//   - GPUOutlineSettings: the uniform
func NewGPUOutlineSettings(s OutlineSettings, p camera.Projection) GPUOutlineSettings {
	g := GPUOutlineSettings{
		Color:             s.Color,
		Weight:            s.Weight,
		NormalThreshold:   s.NormalThreshold,
		DepthThreshold:    s.DepthThreshold,
		AdaptiveThreshold: s.AdaptiveThreshold,
		CameraNear:        s.CameraNear(),
		CameraFar:         p.Far,
		ProjectionKind:    gpuProjectionPerspective,
	}
	if p.Kind == camera.ProjectionOrthographic {
		g.DepthRange = p.Far - p.Near
		g.ProjectionKind = gpuProjectionOrthographic
	}
	return g
}

// Size returns the size of the GPUOutlineSettings struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUOutlineSettings) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUOutlineSettings) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Weight))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.NormalThreshold))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(g.DepthThreshold))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.AdaptiveThreshold))
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(g.CameraNear))
	binary.LittleEndian.PutUint32(buf[36:], math.Float32bits(g.CameraFar))
	binary.LittleEndian.PutUint32(buf[40:], math.Float32bits(g.DepthRange))
	binary.LittleEndian.PutUint32(buf[44:], g.ProjectionKind)
	return buf
}
