package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

type bindGroupProvider struct {
	label string

	// GPU binding resources, keyed by @binding index

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler

	// borrowed marks texture views owned by someone else (render attachments); Release skips them
	borrowed map[int]bool

	// mesh resources for draw calls

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// BindGroupProvider collects the GPU resources that make up one bind group (buffers,
// texture views, samplers) plus optional mesh buffers. The renderer fills it through
// InitBindGroup; draw calls read from it.
type BindGroupProvider interface {
	// Release frees every GPU resource held by the provider except borrowed texture views.
	Release()

	// ReleaseBindGroup frees only the bind group so it can be rebuilt against new resources,
	// for example after the render attachments were recreated on resize.
	ReleaseBindGroup()

	// Label returns the debug label used for GPU objects created for this provider.
	//
	// Returns:
	//   - string: the label
	Label() string

	// BindGroup returns the created bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the mesh vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices in the mesh index buffer.
	IndexCount() int

	// SetBindGroup stores the bind group, releasing the previous one.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the bind group layout.
	//
	// Parameters:
	//   - bgl: the layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores a buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a texture view the provider owns at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view
	SetTextureView(binding int, tv *wgpu.TextureView)

	// BorrowTextureView stores a texture view owned elsewhere at a binding index.
	// Borrowed views are never released by the provider.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view
	BorrowTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a sampler at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the vertex and index buffers of a mesh.
	//
	// Parameters:
	//   - vertexBuffer: the vertex buffer
	//   - indexBuffer: the index buffer
	//   - indexCount: the number of indices
	SetMesh(vertexBuffer, indexBuffer *wgpu.Buffer, indexCount int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label for GPU objects created for this provider
//   - options: functional options applied after construction
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		borrowed:     make(map[int]bool),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	delete(p.borrowed, binding)
}

func (p *bindGroupProvider) BorrowTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
	p.borrowed[binding] = true
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetMesh(vertexBuffer, indexBuffer *wgpu.Buffer, indexCount int) {
	p.vertexBuffer = vertexBuffer
	p.indexBuffer = indexBuffer
	p.indexCount = indexCount
}

func (p *bindGroupProvider) ReleaseBindGroup() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil && !p.borrowed[i] {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	clear(p.borrowed)
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}

	p.ReleaseBindGroup()
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
