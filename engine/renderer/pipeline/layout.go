package pipeline

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupLayoutDescriptors merges the layouts reflected from the pipeline's vertex and
// fragment shaders. A binding declared by both stages gets the union of their visibility.
// Bind groups created for the pipeline must use these descriptors so their layouts match
// the pipeline layout.
//
// Parameters:
//   - p: the pipeline
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func BindGroupLayoutDescriptors(p Pipeline) map[int]wgpu.BindGroupLayoutDescriptor {
	var vertex, fragment map[int]wgpu.BindGroupLayoutDescriptor
	if s := p.Shader(shader.ShaderTypeVertex); s != nil {
		vertex = s.BindGroupLayoutDescriptors()
	}
	if s := p.Shader(shader.ShaderTypeFragment); s != nil {
		fragment = s.BindGroupLayoutDescriptors()
	}
	return mergeBindGroupLayouts(vertex, fragment)
}

func mergeBindGroupLayouts(a, b map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(a), len(b)))
	for _, src := range []map[int]wgpu.BindGroupLayoutDescriptor{a, b} {
		for g, desc := range src {
			entries := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range merged[g].Entries {
				entries[e.Binding] = e
			}
			for _, e := range desc.Entries {
				if existing, ok := entries[e.Binding]; ok {
					e.Visibility |= existing.Visibility
				}
				entries[e.Binding] = e
			}
			out := wgpu.BindGroupLayoutDescriptor{Label: desc.Label}
			for _, binding := range slices.Sorted(maps.Keys(entries)) {
				out.Entries = append(out.Entries, entries[binding])
			}
			merged[g] = out
		}
	}
	return merged
}
