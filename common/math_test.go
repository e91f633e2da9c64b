package common

import (
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

// projectDepth runs a view-space point through a projection matrix and returns NDC depth.
func projectDepth(m [16]float32, viewZ float32) float32 {
	clipZ := m[10]*viewZ + m[14]
	clipW := m[11]*viewZ + m[15]
	return clipZ / clipW
}

func TestPerspectiveDepthRange(t *testing.T) {
	var m [16]float32
	Perspective(m[:], math.Pi/4, 1.5, 0.1, 100)

	if got := projectDepth(m, -0.1); !approx(got, 0, 1e-5) {
		t.Errorf("near plane depth = %v, want 0", got)
	}
	if got := projectDepth(m, -100); !approx(got, 1, 1e-5) {
		t.Errorf("far plane depth = %v, want 1", got)
	}
}

func TestLinearizePerspectiveDepthInvertsProjection(t *testing.T) {
	const near, far = 0.5, 50
	var m [16]float32
	Perspective(m[:], math.Pi/3, 1, near, far)

	for _, dist := range []float32{0.5, 1, 2.5, 10, 49} {
		d := projectDepth(m, -dist)
		got := LinearizePerspectiveDepth(d, near, far)
		if !approx(got, dist, dist*1e-3) {
			t.Errorf("LinearizePerspectiveDepth(%v) = %v, want %v", d, got, dist)
		}
	}
}

func TestLinearizePerspectiveDepthInfiniteFar(t *testing.T) {
	got := LinearizePerspectiveDepth(0.5, 0.1, 0)
	if !approx(got, 0.2, 1e-6) {
		t.Errorf("LinearizePerspectiveDepth(0.5, infinite) = %v, want 0.2", got)
	}
	if v := LinearizePerspectiveDepth(1, 0.1, 0); math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
		t.Errorf("LinearizePerspectiveDepth(1, infinite) = %v, want finite", v)
	}
}

func TestOrthographicRoundTrip(t *testing.T) {
	const near, far = 1, 21
	var m [16]float32
	Orthographic(m[:], -2, 2, -1, 1, near, far)

	for _, dist := range []float32{1, 6, 11, 21} {
		d := projectDepth(m, -dist)
		got := LinearizeOrthographicDepth(d, near, far)
		if !approx(got, dist, 1e-4) {
			t.Errorf("LinearizeOrthographicDepth(%v) = %v, want %v", d, got, dist)
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float32
		want    float32
	}{
		{"black", 0, 0, 0, 0},
		{"white", 1, 1, 1, 1},
		{"red", 1, 0, 0, 0.2126},
		{"green", 0, 1, 0, 0.7152},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luminance(tt.r, tt.g, tt.b); !approx(got, tt.want, 1e-6) {
				t.Errorf("Luminance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampAndCoalesce(t *testing.T) {
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3) = %v, want 0", got)
	}
	if got := Coalesce(0, 0, 7, 9); got != 7 {
		t.Errorf("Coalesce() = %v, want 7", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce() = %q, want empty", got)
	}
}
