package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
)

// ErrUnknownProjection is returned for a camera projection other than perspective or orthographic.
var ErrUnknownProjection = errors.New("unknown projection")

const (
	projectionPerspective  = "perspective"
	projectionOrthographic = "orthographic"
)

// config is the TOML file read by --config. Absent keys keep their defaults.
//
//	[outline]
//	weight = 2.0
//	color = [0.0, 0.0, 0.0, 1.0]
//	normal_threshold = 0.01
//	depth_threshold = 0.05
//	adaptive_threshold = 1.0
//
//	[camera]
//	projection = "perspective"
//	fov = 1.0
//	near = 0.1
//	far = 100.0
type config struct {
	Outline outline.OutlineSettings `toml:"outline"`
	Camera  cameraConfig            `toml:"camera"`
}

type cameraConfig struct {
	Projection string  `toml:"projection"`
	Fov        float32 `toml:"fov"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
	// Height is the vertical extent of an orthographic view.
	Height float32 `toml:"height"`
}

func defaultConfig() config {
	return config{
		Outline: outline.DefaultOutlineSettings(),
		Camera: cameraConfig{
			Projection: projectionPerspective,
			Fov:        1.0,
			Near:       0.1,
			Far:        100,
			Height:     8,
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Outline.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// projection returns the camera projection for a target of the given aspect ratio.
func (c cameraConfig) projection(aspect float32) (camera.Projection, error) {
	switch c.Projection {
	case projectionPerspective, "":
		return camera.PerspectiveProjection(c.Fov, aspect, c.Near, c.Far), nil
	case projectionOrthographic:
		return camera.OrthographicProjection(c.Height, aspect, c.Near, c.Far), nil
	default:
		return camera.Projection{}, fmt.Errorf("%w %q, want %s or %s", ErrUnknownProjection, c.Projection, projectionPerspective, projectionOrthographic)
	}
}
