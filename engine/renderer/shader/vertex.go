package shader

import "github.com/cogentcore/webgpu/wgpu"

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"vec4u":     {wgpu.VertexFormatUint32x4, 16},
}

// parseVertexLayouts turns every pure vertex input struct (only @location members) into a
// tightly packed vertex buffer layout. Output structs carry @builtin(position) and are skipped,
// as are structs with member types that are not vertex formats. A fullscreen shader driven by
// @builtin(vertex_index) has no input struct and gets an empty map.
func parseVertexLayouts(structs []parsedStruct) map[int][]wgpu.VertexBufferLayout {
	result := make(map[int][]wgpu.VertexBufferLayout)
	for _, ps := range structs {
		if !isVertexInput(ps) {
			continue
		}
		if layout, ok := vertexBufferLayout(ps); ok {
			result[len(result)] = []wgpu.VertexBufferLayout{layout}
		}
	}
	return result
}

func isVertexInput(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		hasLocation = hasLocation || f.location >= 0
	}
	return hasLocation
}

func vertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		vf, ok := vertexFormats[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}
