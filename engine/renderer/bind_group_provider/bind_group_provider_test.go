package bind_group_provider

import "testing"

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("outline_view_0")
	if got := p.Label(); got != "outline_view_0" {
		t.Errorf("Label() = %q, want %q", got, "outline_view_0")
	}
}

func TestEmptyProviderLookups(t *testing.T) {
	p := NewBindGroupProvider("empty")
	if p.Buffer(0) != nil || p.TextureView(1) != nil || p.Sampler(2) != nil {
		t.Error("empty provider returned a non-nil resource")
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil {
		t.Error("empty provider returned a non-nil bind group")
	}
	if got := p.IndexCount(); got != 0 {
		t.Errorf("IndexCount() = %d, want 0", got)
	}
}

func TestReleaseClearsBorrowedViews(t *testing.T) {
	p := NewBindGroupProvider("borrowed", WithBorrowedTextureView(1, nil)).(*bindGroupProvider)
	if !p.borrowed[1] {
		t.Fatal("binding 1 not marked borrowed")
	}
	p.Release()
	if len(p.borrowed) != 0 || len(p.textureViews) != 0 {
		t.Errorf("Release() left %d borrowed and %d views", len(p.borrowed), len(p.textureViews))
	}
}

func TestSetTextureViewClearsBorrow(t *testing.T) {
	p := NewBindGroupProvider("owned").(*bindGroupProvider)
	p.BorrowTextureView(0, nil)
	p.SetTextureView(0, nil)
	if p.borrowed[0] {
		t.Error("SetTextureView() kept the borrow flag")
	}
}
