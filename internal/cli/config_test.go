package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "outline.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if !cfg.Outline.Equal(outline.DefaultOutlineSettings()) {
		t.Errorf("Outline = %+v, want the defaults", cfg.Outline)
	}
	if cfg.Camera.Projection != projectionPerspective || cfg.Camera.Near != 0.1 {
		t.Errorf("Camera = %+v, want the perspective defaults", cfg.Camera)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[outline]
weight = 3.0
color = [1.0, 0.0, 0.0, 1.0]
adaptive_threshold = 0.5

[camera]
projection = "orthographic"
height = 4.0
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	want := outline.NewOutlineSettings(3, [4]float32{1, 0, 0, 1}, 0.01, 0.05, 0.5)
	if !cfg.Outline.Equal(want) {
		t.Errorf("Outline = %+v, want %+v", cfg.Outline, want)
	}
	if cfg.Camera.Projection != projectionOrthographic || cfg.Camera.Height != 4 {
		t.Errorf("Camera = %+v, want orthographic with height 4", cfg.Camera)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("Camera near/far = %v/%v, want the defaults 0.1/100", cfg.Camera.Near, cfg.Camera.Far)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.toml") },
		},
		{
			name: "malformed",
			path: func(t *testing.T) string { return writeConfig(t, "[outline\nweight = ") },
		},
		{
			name:    "adaptive out of range",
			path:    func(t *testing.T) string { return writeConfig(t, "[outline]\nadaptive_threshold = 2.0\n") },
			wantErr: outline.ErrAdaptiveRange,
		},
		{
			name:    "negative weight",
			path:    func(t *testing.T) string { return writeConfig(t, "[outline]\nweight = -1.0\n") },
			wantErr: outline.ErrNegativeWeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path(t))
			if err == nil {
				t.Fatal("loadConfig() error = nil, want an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("loadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCameraConfigProjection(t *testing.T) {
	c := defaultConfig().Camera

	p, err := c.projection(2)
	if err != nil || p.Kind != camera.ProjectionPerspective || p.Aspect != 2 || p.FovY != 1 {
		t.Errorf("projection() = (%+v, %v), want a perspective projection with aspect 2", p, err)
	}

	c.Projection = projectionOrthographic
	if p, err := c.projection(1); err != nil || p.Kind != camera.ProjectionOrthographic || p.Height != 8 {
		t.Errorf("projection() = (%+v, %v), want an orthographic projection with height 8", p, err)
	}

	c.Projection = "fisheye"
	if _, err := c.projection(1); !errors.Is(err, ErrUnknownProjection) {
		t.Errorf("projection() error = %v, want ErrUnknownProjection", err)
	}
}
