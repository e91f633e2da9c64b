package renderer

// RendererBuilderOption configures a renderer before NewRenderer creates the device.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets how frames reach the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the sample count of the main pass attachments. The default is MSAA4x.
// Effects that load depth and normal texels one to one, like the outline, need MSAAOff.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer requests the fallback adapter. A software Vulkan ICD such as
// lavapipe or SwiftShader must be installed.
//
// Parameters:
//   - force: true selects the fallback adapter
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
