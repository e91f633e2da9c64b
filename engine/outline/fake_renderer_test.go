package outline

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var errRegister = errors.New("register failed")

// fakeRenderer records the calls the outline node makes. It never creates GPU objects, so
// every provider it touches keeps a nil bind group.
type fakeRenderer struct {
	mu sync.Mutex

	sampleCount uint32
	registerErr error
	attachments renderer.Attachments

	pipelines      map[string]pipeline.Pipeline
	registerCalls  int
	initBindGroups []string
	writes         []bind_group_provider.BufferWrite
	postPasses     int
	fullscreen     []string
	endPasses      int
	swaps          int
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		sampleCount: 1,
		pipelines:   make(map[string]pipeline.Pipeline),
		attachments: renderer.Attachments{Width: 4, Height: 4, Generation: 1, SampleCount: 1},
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipelines[key]
}

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipelines
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments.Width, f.attachments.Height = uint32(width), uint32(height)
	f.attachments.Generation++
}

func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}

func (f *fakeRenderer) SampleCount() uint32 {
	return f.sampleCount
}

func (f *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, _ map[int]uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initBindGroups = append(f.initBindGroups, provider.Label())
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, writes...)
}

func (f *fakeRenderer) Attachments() renderer.Attachments {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachments
}

func (f *fakeRenderer) BeginFrame() error    { return nil }
func (f *fakeRenderer) BeginMainPass() error { return nil }

func (f *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	return nil
}

func (f *fakeRenderer) BeginPostPass() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postPasses++
	return nil
}

func (f *fakeRenderer) DrawFullscreen(pipelineKey string, _ []bind_group_provider.BindGroupProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullscreen = append(f.fullscreen, pipelineKey)
	return nil
}

func (f *fakeRenderer) EndPass() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endPasses++
}

func (f *fakeRenderer) SwapColor() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swaps++
	f.attachments.Current ^= 1
}

func (f *fakeRenderer) BlitToSurface() error { return nil }
func (f *fakeRenderer) EndFrame()            {}
func (f *fakeRenderer) Present()             {}

// acceptAll is a validator that skips naga for tests that only exercise the node wiring.
func acceptAll(string) ([]byte, error) {
	return nil, nil
}
