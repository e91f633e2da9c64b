package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBorrowedTextureView binds a texture view the provider does not own, such as a render
// attachment. Release drops the reference without releasing the view.
//
// Parameters:
//   - binding: the binding index
//   - tv: the borrowed texture view
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithBorrowedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
		p.borrowed[binding] = true
	}
}
