package engine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
)

func TestRenderAppCameras(t *testing.T) {
	ra := newRenderApp(nil, nil)
	a, b := camera.NewCamera(), camera.NewCamera()

	ra.AddCamera(a)
	ra.AddCamera(b)
	ra.AddCamera(a)
	if got := len(ra.Cameras()); got != 2 {
		t.Fatalf("len(Cameras()) = %d, want 2", got)
	}

	ra.RemoveCamera(a)
	cams := ra.Cameras()
	if len(cams) != 1 || cams[0] != b {
		t.Errorf("Cameras() = %v, want only the second camera", cams)
	}
	if ra.Graph() == nil || ra.Graph().Name() != "core3d" {
		t.Error("Graph() should default to the core 3D graph")
	}
}
