package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// ErrUnknownFormat is returned for a graph format other than dot or svg.
var ErrUnknownFormat = errors.New("unknown graph format")

type graphOpts struct {
	format string
	out    string // empty writes to stdout
}

func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the core 3D frame graph with the outline node installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// outlineGraph returns the core 3D graph after the outline plugin installed its node.
func outlineGraph() (render_graph.Graph, error) {
	g := render_graph.NewCore3DGraph()
	app := engine.NewApp(engine.WithRenderGraph(g))
	app.AddPlugins(outline.NewPlugin(nil))
	if err := app.Startup(); err != nil {
		return nil, err
	}
	return g, nil
}

func runGraph(ctx context.Context, stdout io.Writer, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	g, err := outlineGraph()
	if err != nil {
		return err
	}
	order, err := g.Order()
	if err != nil {
		return err
	}
	logger.Debug("frame graph order", "nodes", order)

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(g.ToDOT())
	case formatSVG:
		if data, err = renderSVG(ctx, g.ToDOT()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w %q, want %s or %s", ErrUnknownFormat, opts.format, formatDOT, formatSVG)
	}

	if opts.out == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	logger.Info("frame graph written", "path", opts.out, "format", opts.format, "nodes", len(order))
	return nil
}

// renderSVG lays out a DOT graph with Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
