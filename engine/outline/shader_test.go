package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestShaderSourceValidates(t *testing.T) {
	src := ShaderSource()
	if !strings.HasPrefix(src, GPUOutlineSettingsSource) {
		t.Fatal("ShaderSource() does not start with the OutlineSettings struct")
	}

	spirv, err := shader.Validate(src)
	if errors.Is(err, shader.ErrValidatorLimitation) {
		t.Skipf("naga cannot compile the outline shader: %v", err)
	}
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(spirv) == 0 {
		t.Error("Validate() returned no SPIR-V")
	}
}

func TestShaderBindGroups(t *testing.T) {
	fs, err := shader.NewShaderFromSource(PipelineKey, shader.ShaderTypeFragment, ShaderSource())
	if err != nil {
		t.Fatalf("NewShaderFromSource() error = %v", err)
	}
	if got := fs.EntryPoint(); got != "fs_main" {
		t.Errorf("EntryPoint() = %q, want fs_main", got)
	}

	textures := fs.BindGroupLayoutDescriptor(groupAttachments).Entries
	if len(textures) != 3 {
		t.Fatalf("len(group %d entries) = %d, want 3", groupAttachments, len(textures))
	}
	wantSample := []wgpu.TextureSampleType{
		wgpu.TextureSampleTypeDepth,
		wgpu.TextureSampleTypeFloat,
		wgpu.TextureSampleTypeFloat,
	}
	for i, e := range textures {
		if e.Texture.SampleType != wantSample[i] {
			t.Errorf("binding %d SampleType = %v, want %v", i, e.Texture.SampleType, wantSample[i])
		}
	}
	for binding, name := range []string{"depth_tex", "normal_tex", "color_tex"} {
		if got := fs.BindGroupVarName(groupAttachments, binding); got != name {
			t.Errorf("BindGroupVarName(%d, %d) = %q, want %q", groupAttachments, binding, got, name)
		}
	}

	settings := fs.BindGroupLayoutDescriptor(groupSettings).Entries
	if len(settings) != 1 || settings[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("group %d entries = %+v, want one uniform buffer", groupSettings, settings)
	}

	vs, err := shader.NewShaderFromSource(PipelineKey, shader.ShaderTypeVertex, ShaderSource())
	if err != nil {
		t.Fatalf("NewShaderFromSource() error = %v", err)
	}
	if got := vs.EntryPoint(); got != "vs_main" {
		t.Errorf("EntryPoint() = %q, want vs_main", got)
	}
	if got := len(vs.VertexLayouts()); got != 0 {
		t.Errorf("len(VertexLayouts()) = %d, want 0 for the fullscreen triangle", got)
	}
}
