package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/pkg/geometry"
	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var view viewOpts
	var showNodes bool

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Show what the engine will draw for a scene file",
		Long: `Inspect loads a scene file and reports node and link counts, the bounding box,
the scale the viewport fit will apply, blinking nodes, links with a missing
endpoint and duplicate node ids. Nothing is drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sc, err := loadScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			vc, err := view.resolve(cfg, sc)
			if err != nil {
				return err
			}

			r := inspectScene(sc, vc)
			r.print(args[0])
			if showNodes && len(sc.Nodes) > 0 {
				printNewline()
				fmt.Println(nodeTable(sc.Nodes))
			}
			return nil
		},
	}

	view.addFlags(cmd)
	cmd.Flags().BoolVar(&showNodes, "nodes", false, "list every node")
	return cmd
}

// report summarizes a scene without drawing it.
type report struct {
	nodes, links int
	view         topology.Config
	bounds       geometry.Bounds
	hasBounds    bool
	fit          geometry.Fit
	blinking     []string
	dangling     []string
	duplicates   []string
}

func inspectScene(sc *io.Scene, view topology.Config) report {
	r := report{
		nodes:      len(sc.Nodes),
		links:      len(sc.Links),
		view:       view,
		dangling:   scene.Dangling(sc.Nodes, sc.Links),
		duplicates: scene.Duplicates(sc.Nodes),
	}
	r.bounds, r.hasBounds = geometry.BoundsOf(sc.Nodes)
	r.fit, _ = geometry.ComputeFit(sc.Nodes, view.Width, view.Height)
	for _, n := range sc.Nodes {
		if n != nil && n.HasError() {
			r.blinking = append(r.blinking, n.ID)
		}
	}
	return r
}

func (r report) print(path string) {
	printInfo("%s", path)
	printKeyValue("Nodes", strconv.Itoa(r.nodes))
	printKeyValue("Links", strconv.Itoa(r.links))
	printKeyValue("Viewport", fmt.Sprintf("%s x %s  %s", formatNum(r.view.Width), formatNum(r.view.Height), r.view.Background))
	if r.hasBounds {
		printKeyValue("Bounds", fmt.Sprintf("(%s, %s) .. (%s, %s)",
			formatNum(r.bounds.MinX), formatNum(r.bounds.MinY), formatNum(r.bounds.MaxX), formatNum(r.bounds.MaxY)))
		printKeyValue("Fit scale", formatNum(r.fit.Scale))
	}
	if len(r.blinking) > 0 {
		printKeyValue("Blinking", strings.Join(r.blinking, ", "))
	}
	if len(r.dangling) > 0 {
		printWarning("%d link(s) with a missing endpoint: %s", len(r.dangling), strings.Join(r.dangling, ", "))
	}
	if len(r.duplicates) > 0 {
		printWarning("duplicate node ids: %s", strings.Join(r.duplicates, ", "))
	}
	if r.nodes == 0 {
		printDetail("empty scene")
	}
}

// nodeTable renders one row per node with its pre-fit geometry.
func nodeTable(nodes []*scene.Node) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		status := ""
		if n.HasError() {
			status = "blink"
		}
		rows = append(rows, []string{n.ID, n.Name, formatNum(n.X), formatNum(n.Y), formatNum(n.W), formatNum(n.H), status})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "X", "Y", "W", "H", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 6 {
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// formatNum prints a coordinate without trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
