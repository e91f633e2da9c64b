// Package common holds math helpers and plain data records shared by the engine packages.
package common

import "github.com/cogentcore/webgpu/wgpu"

// SamplerStagingData describes a sampler before the renderer creates it. Zero fields take the
// renderer defaults: clamp to edge addressing, linear filtering, LOD clamp [0, 32] and no
// anisotropy.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	// Compare makes a comparison sampler when set.
	Compare       wgpu.CompareFunction
	MaxAnisotropy uint16
}
