package shader

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `
struct Camera {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
    _pad: f32,
}

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
}

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(1) var depth_tex: texture_depth_2d;
@group(1) @binding(0) var color_tex: texture_2d<f32>;
/* @group(2) @binding(0) var<uniform> hidden: Camera; */
// @group(3) @binding(0) var<uniform> ignored: Camera;
@group(1) @binding(2) var color_sampler: sampler;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.normal = in.normal;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.normal, 1.0);
}
`

func TestNewShaderFromSourceEntryPoints(t *testing.T) {
	tests := []struct {
		shaderType ShaderType
		want       string
	}{
		{ShaderTypeVertex, "vs_main"},
		{ShaderTypeFragment, "fs_main"},
	}
	for _, tt := range tests {
		t.Run(tt.shaderType.String(), func(t *testing.T) {
			s, err := NewShaderFromSource("test", tt.shaderType, testSource)
			if err != nil {
				t.Fatalf("NewShaderFromSource() error = %v", err)
			}
			if got := s.EntryPoint(); got != tt.want {
				t.Errorf("EntryPoint() = %q, want %q", got, tt.want)
			}
			if s.Module() == nil || s.Module().WGSLDescriptor.Code != testSource {
				t.Error("Module() does not carry the source")
			}
		})
	}
}

func TestNewShaderFromSourceErrors(t *testing.T) {
	if _, err := NewShaderFromSource("empty", ShaderTypeVertex, ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("empty source error = %v, want ErrEmptySource", err)
	}
	src := "@fragment fn fs() -> @location(0) vec4<f32> { return vec4<f32>(0.0); }"
	if _, err := NewShaderFromSource("frag", ShaderTypeVertex, src); !errors.Is(err, ErrMissingEntryPoint) {
		t.Errorf("missing vertex stage error = %v, want ErrMissingEntryPoint", err)
	}
}

func TestBindGroupLayouts(t *testing.T) {
	s, err := NewShaderFromSource("test", ShaderTypeFragment, testSource)
	if err != nil {
		t.Fatalf("NewShaderFromSource() error = %v", err)
	}

	descs := s.BindGroupLayoutDescriptors()
	if len(descs) != 2 {
		t.Fatalf("len(BindGroupLayoutDescriptors()) = %d, want 2 (commented groups must be ignored)", len(descs))
	}

	cam := s.BindGroupLayoutDescriptor(0).Entries
	if len(cam) != 1 || cam[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Fatalf("group 0 entries = %+v, want one uniform buffer", cam)
	}
	if got := cam[0].Buffer.MinBindingSize; got != 80 {
		t.Errorf("camera MinBindingSize = %d, want 80", got)
	}
	if cam[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("Visibility = %v, want fragment", cam[0].Visibility)
	}

	tex := s.BindGroupLayoutDescriptor(1).Entries
	if len(tex) != 3 {
		t.Fatalf("len(group 1 entries) = %d, want 3", len(tex))
	}
	for i, e := range tex {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d has binding %d, want sorted bindings", i, e.Binding)
		}
	}
	if tex[0].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Errorf("color_tex SampleType = %v, want float", tex[0].Texture.SampleType)
	}
	if tex[1].Texture.SampleType != wgpu.TextureSampleTypeDepth {
		t.Errorf("depth_tex SampleType = %v, want depth", tex[1].Texture.SampleType)
	}
	if tex[2].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Errorf("color_sampler Type = %v, want filtering", tex[2].Sampler.Type)
	}

	if got := s.BindGroupVarName(1, 1); got != "depth_tex" {
		t.Errorf("BindGroupVarName(1, 1) = %q, want depth_tex", got)
	}
	if b, ok := s.BindGroupFromVarName(1, "color_sampler"); !ok || b != 2 {
		t.Errorf("BindGroupFromVarName(1, color_sampler) = (%d, %v), want (2, true)", b, ok)
	}
	if _, ok := s.BindGroupFromVarName(0, "missing"); ok {
		t.Error("BindGroupFromVarName() found a missing variable")
	}
}

func TestVertexLayouts(t *testing.T) {
	s, err := NewShaderFromSource("test", ShaderTypeVertex, testSource)
	if err != nil {
		t.Fatalf("NewShaderFromSource() error = %v", err)
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("len(VertexLayouts()) = %d, want 1 (output struct must be skipped)", len(layouts))
	}
	l := layouts[0][0]
	if l.ArrayStride != 24 {
		t.Errorf("ArrayStride = %d, want 24", l.ArrayStride)
	}
	if len(l.Attributes) != 2 || l.Attributes[1].Offset != 12 || l.Attributes[1].ShaderLocation != 1 {
		t.Errorf("Attributes = %+v, want normal at offset 12 location 1", l.Attributes)
	}

	frag, _ := NewShaderFromSource("test", ShaderTypeFragment, testSource)
	if got := len(frag.VertexLayouts()); got != 0 {
		t.Errorf("fragment VertexLayouts() has %d entries, want 0", got)
	}
}

func TestResolveLayout(t *testing.T) {
	known := map[string]typeLayout{"Plane": {16, 16}}
	tests := []struct {
		typeName string
		want     typeLayout
		ok       bool
	}{
		{"f32", typeLayout{4, 4}, true},
		{"vec3<f32>", typeLayout{12, 16}, true},
		{"array<Plane, 6>", typeLayout{96, 16}, true},
		{"array<vec3<f32>>", typeLayout{16, 16}, true},
		{"array<f32, n>", typeLayout{}, false},
		{"Unknown", typeLayout{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := resolveLayout(tt.typeName, known)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveLayout(%q) = (%v, %v), want (%v, %v)", tt.typeName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStructLayoutsNested(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Outer { inner: Inner, tail: u32, }
struct Inner { a: vec4<f32>, b: f32, }
`))
	layouts := structLayouts(structs)
	if got := layouts["Inner"]; got != (typeLayout{32, 16}) {
		t.Errorf("Inner = %v, want {32 16}", got)
	}
	if got := layouts["Outer"]; got != (typeLayout{48, 16}) {
		t.Errorf("Outer = %v, want {48 16}", got)
	}
}

func TestStripComments(t *testing.T) {
	got := stripComments("a /* b /* nested */ c */ d // tail\ne")
	if want := "a  d \ne"; got != want {
		t.Errorf("stripComments() = %q, want %q", got, want)
	}
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	if _, err := Validate(""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("Validate(\"\") = %v, want ErrEmptySource", err)
	}
	if _, err := Validate("fn broken( {"); err == nil {
		t.Error("Validate() accepted a broken source")
	}
}
