package shader

import (
	"strconv"
	"strings"
)

// typeLayout is the host-shareable size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// primitiveLayouts covers the scalar, vector and matrix types uniforms are built from.
// Sizes and alignments follow the WGSL alignment-and-size table.
var primitiveLayouts = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8}, "vec2f": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16},
	"vec2<i32>": {8, 8}, "vec2i": {8, 8},
	"vec3<i32>": {12, 16}, "vec3i": {12, 16},
	"vec4<i32>": {16, 16}, "vec4i": {16, 16},
	"vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<u32>": {16, 16}, "vec4u": {16, 16},

	"mat3x3<f32>": {48, 16}, "mat3x3f": {48, 16},
	"mat4x4<f32>": {64, 16}, "mat4x4f": {64, 16},
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// resolveLayout resolves primitives, known structs and array<T[, N]>.
// A runtime-sized array resolves to one element stride.
func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	elemName, countStr, sized := strings.Cut(strings.TrimSuffix(inner, ">"), ",")

	elem, ok := resolveLayout(strings.TrimSpace(elemName), known)
	if !ok {
		return typeLayout{}, false
	}
	stride := alignUp(elem.align, elem.size)
	if !sized {
		return typeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{count * stride, elem.align}, true
}

// structLayout lays members out at their aligned offsets and rounds the total up to the
// largest member alignment. Builtin members are not part of buffer memory.
func structLayout(ps parsedStruct, known map[string]typeLayout) (typeLayout, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayout{alignUp(maxAlign, offset), maxAlign}, true
}

// structLayouts resolves every struct, repeating until nested struct members stop making progress.
func structLayouts(structs []parsedStruct) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	pending := append([]parsedStruct(nil), structs...)

	for len(pending) > 0 {
		next := pending[:0]
		for _, ps := range pending {
			if l, ok := structLayout(ps, resolved); ok {
				resolved[ps.name] = l
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}
