package synth

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/go-gl/mathgl/mgl32"
)

var testProjection = camera.PerspectiveProjection(1, 4.0/3.0, 0.1, 100)

func outlineOf(t *testing.T, name string, p camera.Projection) (*outline.Buffers, outline.Result) {
	t.Helper()
	s, err := New(name)
	if err != nil {
		t.Fatalf("New(%q) error = %v", name, err)
	}
	b := s.Render(64, 48, p)
	u := outline.NewGPUOutlineSettings(withNear(outline.DefaultOutlineSettings(), p), p)
	k := outline.NewKernel(outline.WithWorkers(2))
	defer k.Close()
	return b, k.Apply(b, u)
}

// withNear runs the camera sync step for a one-off camera with projection p.
func withNear(s outline.OutlineSettings, p camera.Projection) outline.OutlineSettings {
	e := outline.NewEffect()
	cam := camera.NewCamera(append(e.CameraOptions(), camera.WithProjection(p))...)
	v, _ := e.Attach(cam, s)
	e.Sync()
	return v.Settings()
}

func TestNames(t *testing.T) {
	want := []string{"boxes", "crease", "plane", "sphere"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("teapot"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("New(teapot) error = %v, want ErrUnknownScene", err)
	}
}

func TestRenderBuffers(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, _ := New(name)
			if s.Name() != name {
				t.Errorf("Name() = %q, want %q", s.Name(), name)
			}
			b := s.Render(32, 24, testProjection)
			if !b.Valid() || b.Width != 32 || b.Height != 24 {
				t.Fatalf("Render() = %dx%d valid %v, want a valid 32x24 target", b.Width, b.Height, b.Valid())
			}
			for i, d := range b.Depth {
				if d < 0 || d > 1 {
					t.Fatalf("Depth[%d] = %v, want a value in [0, 1]", i, d)
				}
			}
		})
	}
}

func TestPlaneHasNoEdges(t *testing.T) {
	projections := map[string]camera.Projection{
		"perspective":  testProjection,
		"orthographic": camera.OrthographicProjection(8, 4.0/3.0, 0.1, 50),
	}
	for name, p := range projections {
		t.Run(name, func(t *testing.T) {
			b, res := outlineOf(t, "plane", p)
			if got := res.EdgeCount(); got != 0 {
				t.Errorf("EdgeCount() = %d, want 0", got)
			}
			for i := range b.Color {
				if res.Color[i] != b.Color[i] {
					t.Fatalf("texel %d = %v, want input %v", i, res.Color[i], b.Color[i])
				}
			}
		})
	}
}

func TestCreaseOutlinesTheFold(t *testing.T) {
	b, res := outlineOf(t, "crease", testProjection)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			want := x == b.Width/2-1 || x == b.Width/2
			if got := res.Edges[b.Index(x, y)]; got != want {
				t.Fatalf("Edges(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSphereOutlinesTheSilhouette(t *testing.T) {
	b, res := outlineOf(t, "sphere", testProjection)
	if res.EdgeCount() == 0 {
		t.Fatal("EdgeCount() = 0, want the silhouette")
	}
	if res.Edges[b.Index(b.Width/2, b.Height/2)] {
		t.Error("sphere center was flagged")
	}
	if res.Edges[b.Index(0, 0)] {
		t.Error("wall corner was flagged")
	}
	if n := b.Normal[b.Index(b.Width/2, b.Height/2)]; n.Sub(mgl32.Vec3{0, 0, 1}).Len() > 0.1 {
		t.Errorf("center normal = %v, want roughly +Z", n)
	}
}

func TestBoxesHaveEdges(t *testing.T) {
	_, res := outlineOf(t, "boxes", testProjection)
	if res.EdgeCount() == 0 {
		t.Error("EdgeCount() = 0, want box outlines")
	}
}

func TestRenderClipsToFarPlane(t *testing.T) {
	s, _ := New("plane")
	b := s.Render(8, 8, camera.PerspectiveProjection(1, 1, 0.1, 5))
	for i := range b.Depth {
		if b.Depth[i] != 1 || b.Normal[i] != (mgl32.Vec3{}) || b.Color[i] != background {
			t.Fatalf("texel %d = (%v, %v, %v), want background beyond the far plane", i, b.Depth[i], b.Normal[i], b.Color[i])
		}
	}
}
