package camera

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	if got := c.ProjectionRevision(); got != 1 {
		t.Errorf("ProjectionRevision() = %d, want 1", got)
	}
	if got := c.Projection().Kind; got != ProjectionPerspective {
		t.Errorf("Projection().Kind = %v, want perspective", got)
	}
	if got := c.Near(); got != 0.1 {
		t.Errorf("Near() = %v, want 0.1", got)
	}
	if got := c.SampleCount(); got != DefaultSampleCount {
		t.Errorf("SampleCount() = %d, want %d", got, DefaultSampleCount)
	}
	if got := c.Prepasses(); got != PrepassNone {
		t.Errorf("Prepasses() = %v, want none", got)
	}
}

func TestCameraIDsAreUnique(t *testing.T) {
	a, b := NewCamera(), NewCamera()
	if a.ID() == b.ID() {
		t.Errorf("two cameras share id %d", a.ID())
	}
}

func TestBuilderOptionsDoNotBumpRevision(t *testing.T) {
	c := NewCamera(
		WithPerspective(1, 2, 0.5, 50),
		WithNear(0.25),
		WithPrepasses(PrepassDepth),
		WithPrepasses(PrepassNormal),
		WithSampleCount(0),
	)

	if got := c.ProjectionRevision(); got != 1 {
		t.Errorf("ProjectionRevision() = %d, want 1", got)
	}
	if got := c.Near(); got != 0.25 {
		t.Errorf("Near() = %v, want 0.25", got)
	}
	if got := c.Prepasses(); !got.Has(PrepassDepth | PrepassNormal) {
		t.Errorf("Prepasses() = %v, want depth|normal", got)
	}
	if got := c.SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
}

func TestProjectionMutationsBumpRevision(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Camera)
	}{
		{"near", func(c Camera) { c.SetNear(0.5) }},
		{"far", func(c Camera) { c.SetFar(10) }},
		{"fov", func(c Camera) { c.SetFov(1) }},
		{"aspect", func(c Camera) { c.SetAspect(2) }},
		{"projection", func(c Camera) { c.SetProjection(OrthographicProjection(4, 1, 0.1, 10)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			before := c.ProjectionRevision()
			tt.mutate(c)
			if got := c.ProjectionRevision(); got != before+1 {
				t.Errorf("ProjectionRevision() = %d, want %d", got, before+1)
			}
		})
	}
}

func TestNonProjectionMutationsKeepRevision(t *testing.T) {
	c := NewCamera()
	c.SetLookAt([3]float32{1, 2, 3}, [3]float32{0, 0, 0})
	c.SetPrepasses(PrepassDepth)
	c.SetSampleCount(1)

	if got := c.ProjectionRevision(); got != 1 {
		t.Errorf("ProjectionRevision() = %d, want 1", got)
	}
}

func TestUniformMatchesViewProjection(t *testing.T) {
	c := NewCamera(WithLookAt([3]float32{3, 4, 5}, [3]float32{0, 1, 0}))
	c.SetProjection(OrthographicProjection(6, 1.5, 0.5, 40))

	u := c.Uniform()
	if got, want := u.ViewProj, c.ViewProjectionMatrix(); got != want {
		t.Errorf("Uniform().ViewProj = %v, want %v", got, want)
	}
	if got, want := u.CameraPosition, c.Position(); got != want {
		t.Errorf("Uniform().CameraPosition = %v, want %v", got, want)
	}

	// the view-projection of a look-at camera maps the target onto the view axis
	m := u.ViewProj
	x := m[0]*0 + m[4]*1 + m[8]*0 + m[12]
	y := m[1]*0 + m[5]*1 + m[9]*0 + m[13]
	if math.Abs(float64(x)) > 1e-5 || math.Abs(float64(y)) > 1e-5 {
		t.Errorf("target projects to (%v, %v), want (0, 0)", x, y)
	}
}

func TestOrthographicMatrixDepth(t *testing.T) {
	c := NewCamera(WithOrthographic(4, 1, 1, 11))
	m := c.ProjectionMatrix()

	// m[11] == 0 and m[15] == 1 for orthographic projections
	if m[11] != 0 || m[15] != 1 {
		t.Fatalf("orthographic matrix w row = (%v, %v), want (0, 1)", m[11], m[15])
	}
	far := m[10]*-11 + m[14]
	if math.Abs(float64(far-1)) > 1e-6 {
		t.Errorf("far plane depth = %v, want 1", far)
	}
}

func TestProjectionLinearizeDepth(t *testing.T) {
	p := OrthographicProjection(2, 1, 2, 12)
	if got := p.LinearizeDepth(0.5); got != 7 {
		t.Errorf("LinearizeDepth(0.5) = %v, want 7", got)
	}
}

func TestProjectionDepthSampleRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    Projection
	}{
		{"perspective", PerspectiveProjection(1, 1, 0.1, 100)},
		{"infinite far", PerspectiveProjection(1, 1, 0.1, 0)},
		{"orthographic", OrthographicProjection(10, 1, 1, 21)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, z := range []float32{1, 2.5, 7, 20} {
				d := tt.p.DepthSample(z)
				if d < 0 || d > 1 {
					t.Errorf("DepthSample(%v) = %v, want a value in [0, 1]", z, d)
				}
				if got := tt.p.LinearizeDepth(d); math.Abs(float64(got-z)) > 1e-3*float64(z) {
					t.Errorf("LinearizeDepth(DepthSample(%v)) = %v, want %v", z, got, z)
				}
			}
		})
	}
}

func TestPrepassString(t *testing.T) {
	tests := []struct {
		p    Prepass
		want string
	}{
		{PrepassNone, "none"},
		{PrepassDepth, "depth"},
		{PrepassDepth | PrepassNormal | PrepassDeferred, "depth|normal|deferred"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Prepass(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithLookAt([3]float32{1, 2, 3}, [3]float32{0, 0, 0}))
	u := c.Uniform()
	buf := u.Marshal()

	if len(buf) != 80 {
		t.Fatalf("len(Marshal()) = %d, want 80", len(buf))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])); got != 2 {
		t.Errorf("camera_position.y = %v, want 2", got)
	}
}
