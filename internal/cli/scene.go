package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// viewOpts holds the viewport flags shared by render, inspect and interact.
// Zero values defer to the scene file, then to the config file.
type viewOpts struct {
	width      float64 // viewport width
	height     float64 // viewport height
	background string  // background color
	noFit      bool    // draw at the given coordinates
}

func (o *viewOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", 0, "viewport width (default from scene or config)")
	cmd.Flags().Float64Var(&o.height, "height", 0, "viewport height (default from scene or config)")
	cmd.Flags().StringVar(&o.background, "background", "", "background color (default from scene or config)")
	cmd.Flags().BoolVar(&o.noFit, "no-fit", false, "draw nodes at their given coordinates without fitting the viewport")
}

// resolve picks the viewport with flag > scene > config precedence.
func (o viewOpts) resolve(cfg Config, sc *io.Scene) (topology.Config, error) {
	w, h, bg := sc.Size()
	out := topology.Config{
		Width:      pick(o.width, pick(w, cfg.Width)),
		Height:     pick(o.height, pick(h, cfg.Height)),
		Background: pick(o.background, pick(bg, cfg.Background)),
	}

	if err := errors.ValidateViewport(out.Width, out.Height); err != nil {
		return out, err
	}
	return out, nil
}

func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// loadScene imports a scene file and logs what the engine will tolerate but
// the user probably did not intend.
func loadScene(ctx context.Context, path string) (*io.Scene, error) {
	logger := loggerFromContext(ctx)

	sc, err := io.Import(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Loaded scene: %d nodes, %d links", len(sc.Nodes), len(sc.Links))

	if dups := scene.Duplicates(sc.Nodes); len(dups) > 0 {
		logger.Warn("Duplicate node ids, the last one wins", "ids", dups)
	}
	if dangling := scene.Dangling(sc.Nodes, sc.Links); len(dangling) > 0 {
		logger.Warn("Links with a missing endpoint will be drawn empty", "links", dangling)
	}
	return sc, nil
}

// newEngine draws sc onto a fresh document.
func newEngine(ctx context.Context, sc *io.Scene, view topology.Config, noFit bool, blink time.Duration) (*topology.Engine, *canvas.Document) {
	opts := []topology.Option{
		topology.WithLogger(loggerFromContext(ctx)),
		topology.WithContext(ctx),
		topology.WithBlinkPeriod(blink),
	}
	if noFit {
		opts = append(opts, topology.WithoutFit())
	}

	doc := canvas.NewDocument()
	eng := topology.New(doc, view, opts...)
	eng.SetNodes(sc.Nodes)
	eng.SetLinks(sc.Links)
	eng.Render()
	return eng, doc
}
