package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/internal/synth"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"
)

const (
	defaultScene  = "boxes"
	defaultOut    = "outline.png"
	defaultWidth  = 320
	defaultHeight = 240
)

// ErrInvalidSize is returned for a non-positive width, height or scale.
var ErrInvalidSize = errors.New("width, height and scale must be positive")

// renderOpts holds the flags of the render command.
type renderOpts struct {
	scene      string
	out        string
	configPath string
	width      int
	height     int
	scale      int
	workers    int // 0 picks the kernel default
	projection string

	// overrides, applied only when the flag was set
	weight            float32
	normalThreshold   float32
	depthThreshold    float32
	adaptiveThreshold float32
}

func newRenderCmd() *cobra.Command {
	defaults := outline.DefaultOutlineSettings()
	opts := renderOpts{
		scene:             defaultScene,
		out:               defaultOut,
		width:             defaultWidth,
		height:            defaultHeight,
		scale:             1,
		weight:            defaults.Weight,
		normalThreshold:   defaults.NormalThreshold,
		depthThreshold:    defaults.DepthThreshold,
		adaptiveThreshold: defaults.AdaptiveThreshold,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the outline kernel over a synthetic scene and write a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return runRender(cmd.Context(), opts, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.scene, "scene", opts.scene, fmt.Sprintf("synthetic scene: %v", synth.Names()))
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output PNG path")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML file with [outline] and [camera] tables")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "render width in texels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "render height in texels")
	cmd.Flags().IntVar(&opts.scale, "scale", opts.scale, "nearest-neighbour upscale factor of the PNG")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "kernel worker count (0 = one less than the CPU count)")
	cmd.Flags().StringVar(&opts.projection, "projection", "", "camera projection: perspective or orthographic (overrides the config)")
	cmd.Flags().Float32Var(&opts.weight, "weight", opts.weight, "outline thickness in pixels")
	cmd.Flags().Float32Var(&opts.normalThreshold, "normal-threshold", opts.normalThreshold, "normal divergence an edge must exceed")
	cmd.Flags().Float32Var(&opts.depthThreshold, "depth-threshold", opts.depthThreshold, "linear depth difference an edge must exceed")
	cmd.Flags().Float32Var(&opts.adaptiveThreshold, "adaptive-threshold", opts.adaptiveThreshold, "luminance above which the outline inverts (1 disables)")

	return cmd
}

// apply copies the flags the user set over the config file values.
func (o renderOpts) apply(cmd *cobra.Command, cfg *config) error {
	flags := cmd.Flags()
	if flags.Changed("weight") {
		cfg.Outline.Weight = o.weight
	}
	if flags.Changed("normal-threshold") {
		cfg.Outline.NormalThreshold = o.normalThreshold
	}
	if flags.Changed("depth-threshold") {
		cfg.Outline.DepthThreshold = o.depthThreshold
	}
	if flags.Changed("adaptive-threshold") {
		cfg.Outline.AdaptiveThreshold = o.adaptiveThreshold
	}
	if o.projection != "" {
		cfg.Camera.Projection = o.projection
	}
	return cfg.Outline.Validate()
}

func runRender(ctx context.Context, opts renderOpts, cfg config) error {
	logger := loggerFromContext(ctx)
	if opts.width <= 0 || opts.height <= 0 || opts.scale <= 0 {
		return fmt.Errorf("%w: got %dx%d at scale %d", ErrInvalidSize, opts.width, opts.height, opts.scale)
	}

	scene, err := synth.New(opts.scene)
	if err != nil {
		return err
	}
	proj, err := cfg.Camera.projection(float32(opts.width) / float32(opts.height))
	if err != nil {
		return err
	}

	prog := newProgress(logger)

	// one headless frame runs the camera sync and uniform extraction
	plugin := outline.NewPlugin(nil)
	app := engine.NewApp()
	app.AddPlugins(plugin)
	if err := app.Startup(); err != nil {
		return err
	}
	cam := camera.NewCamera(append(plugin.Effect().CameraOptions(), camera.WithProjection(proj))...)
	view, err := plugin.Effect().Attach(cam, cfg.Outline)
	if err != nil {
		return err
	}
	if err := app.Frame(0); err != nil {
		return err
	}
	uniform := view.Staged(0)
	logger.Debug("uniform staged", "near", uniform.CameraNear, "far", uniform.CameraFar, "projection", proj.Kind)

	var kernelOpts []outline.KernelBuilderOption
	if opts.workers > 0 {
		kernelOpts = append(kernelOpts, outline.WithWorkers(opts.workers))
	}
	kernel := outline.NewKernel(kernelOpts...)
	defer kernel.Close()
	res := kernel.Apply(scene.Render(opts.width, opts.height, proj), uniform)

	img := toImage(res.Color, opts.width, opts.height)
	if opts.scale > 1 {
		img = upscale(img, opts.scale)
	}
	if err := writePNG(opts.out, img); err != nil {
		return err
	}

	prog.done("outline rendered",
		"scene", scene.Name(),
		"path", opts.out,
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"edges", res.EdgeCount(),
		"workers", kernel.Workers(),
	)
	return nil
}

// toImage quantizes linear [0, 1] colors to an 8-bit image.
func toImage(colors []mgl32.Vec4, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colors[y*width+x]
			img.SetNRGBA(x, y, color.NRGBA{R: quantize(c[0]), G: quantize(c[1]), B: quantize(c[2]), A: quantize(c[3])})
		}
	}
	return img
}

func quantize(v float32) uint8 {
	return uint8(common.Clamp(v, 0, 1)*255 + 0.5)
}

// upscale enlarges img by an integer factor without filtering, so single-texel outlines stay crisp.
func upscale(img *image.NRGBA, scale int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
