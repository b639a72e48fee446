package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/pkg/cache"
	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/render"
	"github.com/matzehuels/visualtopo/pkg/render/nodelink"
)

const (
	vizTopology = "topology" // interactive engine output, frozen
	vizNodelink = "nodelink" // Graphviz export with pinned positions
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	view     viewOpts
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "svg", "png", "pdf", "dot"
	vizType  string   // "topology" or "nodelink"
	scale    float64  // PNG scale factor
	detailed bool     // show ids and positions in nodelink labels
	noCache  bool     // skip the artifact cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{vizType: vizTopology, scale: 1}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene file to SVG, PNG, PDF or DOT",
		Long: `Render a scene file (.json, .toml, .yaml) the way the interactive engine draws it.

The scene is fit to the viewport unless --no-fit is given. With --type nodelink
the fitted scene is handed to Graphviz with node positions pinned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.vizType != vizTopology && opts.vizType != vizNodelink {
				return errors.New(errors.ErrCodeInvalidInput, "invalid type: %s (must be 'topology' or 'nodelink')", opts.vizType)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store := openCache(cmd.Context(), opts.noCache)
			defer store.Close()
			return runRender(cmd.Context(), args[0], cfg, &opts, store)
		},
	}

	opts.view.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "renderer: topology (default), nodelink")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and positions in labels (nodelink)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "convert without reading or writing the artifact cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	render.FormatSVG: true,
	render.FormatPNG: true,
	render.FormatPDF: true,
	render.FormatDOT: true,
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no output format given")
	}
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png', 'pdf' or 'dot')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where format is written. A single format honors
// --output verbatim.
func outputPath(opts *renderOpts, input, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender loads the scene, draws it once and writes every requested format.
func runRender(ctx context.Context, input string, cfg Config, opts *renderOpts, store cache.Cache) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sc, err := loadScene(ctx, input)
	if err != nil {
		return err
	}
	view, err := opts.view.resolve(cfg, sc)
	if err != nil {
		return err
	}

	eng, doc := newEngine(ctx, sc, view, opts.view.noFit, cfg.BlinkPeriod.Duration)
	defer eng.Destroy()

	// The engine has fit the nodes in place; both renderers use that geometry.
	nodes, links := eng.Graph()
	dot := nodelink.ToDOT(nodes, links, nodelink.Options{Detailed: opts.detailed, Background: view.Background})

	var svg []byte
	for _, format := range opts.formats {
		data := []byte(dot)
		if format != render.FormatDOT {
			if svg == nil {
				if svg, err = drawSVG(ctx, store, opts.vizType, doc.SVG, dot); err != nil {
					return err
				}
			}
			if data, err = convert(ctx, store, svg, format, opts.scale); err != nil {
				return err
			}
		}

		path := outputPath(opts, input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	prog.done(fmt.Sprintf("Rendered %s", input))
	printNextStep("Click and drag it", "visualtopo interact "+input)
	return nil
}

func drawSVG(ctx context.Context, store cache.Cache, vizType string, topologySVG func() []byte, dot string) ([]byte, error) {
	if vizType != vizNodelink {
		return topologySVG(), nil
	}
	return cached(ctx, store, cache.Key("nodelink", cache.Hash([]byte(dot))), func() ([]byte, error) {
		return nodelink.RenderSVG(ctx, dot)
	})
}

// convert runs the SVG conversion, with a spinner for the external tool.
func convert(ctx context.Context, store cache.Cache, svg []byte, format string, scale float64) ([]byte, error) {
	if format == render.FormatSVG {
		return svg, nil
	}
	key := cache.Key("artifact", format, scale, cache.Hash(svg))
	return cached(ctx, store, key, func() ([]byte, error) {
		s := newSpinner(ctx, fmt.Sprintf("Converting to %s...", format))
		s.start()
		defer s.stop()
		return render.Convert(ctx, svg, format, scale)
	})
}
