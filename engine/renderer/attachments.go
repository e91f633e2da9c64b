package renderer

import "github.com/cogentcore/webgpu/wgpu"

// Attachments are the single-sampled offscreen targets of the current surface size.
// The views are owned by the renderer and replaced on resize; Generation changes every
// time they are, so consumers holding bind groups over them know to rebuild.
type Attachments struct {
	Width, Height uint32

	// Generation increases every time the attachments are recreated.
	Generation uint64

	// SampleCount of the main pass. Depth is multisampled when this is above 1.
	SampleCount uint32

	Depth  *wgpu.TextureView
	Normal *wgpu.TextureView
	Color  [2]*wgpu.TextureView

	// Current indexes Color: the target holding the latest image.
	Current int
}

// Source returns the color target holding the latest image.
func (a Attachments) Source() *wgpu.TextureView {
	return a.Color[a.Current]
}

// Destination returns the color target a post pass writes into.
func (a Attachments) Destination() *wgpu.TextureView {
	return a.Color[1-a.Current]
}
