package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("scene")

	if got := p.PipelineKey(); got != "scene" {
		t.Errorf("PipelineKey() = %q, want scene", got)
	}
	if got := p.ColorFormats(); len(got) != 1 || got[0] != ColorTargetSurface {
		t.Errorf("ColorFormats() = %v, want one surface target", got)
	}
	if got := p.DepthFormat(); got != wgpu.TextureFormatDepth32Float {
		t.Errorf("DepthFormat() = %v, want Depth32Float", got)
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Error("depth test and write should default to enabled")
	}
	if got := p.SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
	if p.RenderPipeline() != nil {
		t.Error("RenderPipeline() should be nil before creation")
	}
}

func TestWithPostProcess(t *testing.T) {
	p := NewPipeline("outline",
		WithSampleCount(4),
		WithPostProcess(wgpu.TextureFormatRGBA16Float),
	)

	if got := p.ColorFormats(); len(got) != 1 || got[0] != wgpu.TextureFormatRGBA16Float {
		t.Errorf("ColorFormats() = %v, want [RGBA16Float]", got)
	}
	if got := p.DepthFormat(); got != wgpu.TextureFormatUndefined {
		t.Errorf("DepthFormat() = %v, want undefined", got)
	}
	if p.DepthTestEnabled() || p.DepthWriteEnabled() {
		t.Error("post-process pipeline should not depth test or write")
	}
	if got := p.SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
}

func TestWithColorFormatsCopies(t *testing.T) {
	formats := []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA16Float}
	p := NewPipeline("mrt", WithColorFormats(formats...))
	formats[0] = wgpu.TextureFormatBGRA8Unorm

	if got := p.ColorFormats()[0]; got != wgpu.TextureFormatRGBA8Unorm {
		t.Errorf("ColorFormats()[0] = %v, want RGBA8Unorm", got)
	}
}

func TestWithSampleCountFloor(t *testing.T) {
	if got := NewPipeline("p", WithSampleCount(0)).SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
}
