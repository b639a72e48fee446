package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/scene"
	"github.com/matzehuels/visualtopo/pkg/session"
)

// Interact styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listStatusStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	defaultDragStep = 10
	eventLogSize    = 8
)

// interactCommand creates the interact command.
func (c *CLI) interactCommand() *cobra.Command {
	var (
		view   viewOpts
		output string
		save   string
		step   float64
	)

	cmd := &cobra.Command{
		Use:   "interact [scene]",
		Short: "Click and drag the nodes of a scene from the terminal",
		Long: `Interact keeps a scene live in the engine and sends pointer gestures to it
from the keyboard. Every handler notification is shown in the event log.

Keys:
  ↑/↓ tab      select a node or link
  enter        click
  r            right-click
  h j k l      drag the selected node left, down, up, right
  0            reset the view to the original geometry
  w            write the current SVG to --output
  s            save the current geometry to --save
  q            quit`,
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
			sc.Viewport = &io.Viewport{Width: vc.Width, Height: vc.Height, Background: vc.Background}

			opts := []topology.Option{
				topology.WithContext(cmd.Context()),
				topology.WithBlinkPeriod(cfg.BlinkPeriod.Duration),
			}
			if view.noFit {
				opts = append(opts, topology.WithoutFit())
			}
			sess, err := session.New(sc, loggerFromContext(cmd.Context()), opts...)
			if err != nil {
				return err
			}
			defer sess.Close()

			if output == "" {
				output = basePath("", args[0]) + ".svg"
			}
			m := newInteractModel(sess, output, save, step)
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return err
			}
			return nil
		},
	}

	view.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file written with 'w' (default: scene name with .svg)")
	cmd.Flags().StringVar(&save, "save", "", "scene file written with 's' (.json, .toml, .yaml)")
	cmd.Flags().Float64Var(&step, "step", defaultDragStep, "drag distance per key press")
	return cmd
}

// target is a selectable drawn element.
type target struct {
	kind string // session.KindNode or session.KindLink
	id   string
}

// interactModel is the bubbletea model driving a live session.
type interactModel struct {
	sess    *session.Session
	targets []target
	cursor  int
	step    float64
	output  string
	save    string
	log     []string
	status  string
}

func newInteractModel(sess *session.Session, output, save string, step float64) interactModel {
	if step <= 0 {
		step = defaultDragStep
	}
	m := interactModel{sess: sess, output: output, save: save, step: step}

	sc := sess.Scene()
	seen := make(map[string]bool)
	for _, n := range sc.Nodes {
		if n != nil && !seen[n.ID] {
			seen[n.ID] = true
			m.targets = append(m.targets, target{session.KindNode, n.ID})
		}
	}
	for _, l := range sc.Links {
		if l != nil {
			m.targets = append(m.targets, target{session.KindLink, l.ID})
		}
	}
	return m
}

func (m interactModel) Init() tea.Cmd {
	return nil
}

func (m interactModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "tab":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.dispatch(session.TypeClick, 0, 0)
	case "r":
		m.dispatch(session.TypeContextMenu, 0, 0)
	case "h":
		m.dispatch(session.TypeDrag, -m.step, 0)
	case "l":
		m.dispatch(session.TypeDrag, m.step, 0)
	case "k":
		m.dispatch(session.TypeDrag, 0, -m.step)
	case "j":
		m.dispatch(session.TypeDrag, 0, m.step)
	case "0":
		m.sess.Reset()
		m.status = "view reset"
	case "w":
		m.writeSVG()
	case "s":
		m.saveScene()
	}
	return m, nil
}

// dispatch sends a gesture to the selected target. Clicks land on the
// element's center; drags move a node by (dx, dy) in one step.
func (m *interactModel) dispatch(typ string, dx, dy float64) {
	if len(m.targets) == 0 {
		return
	}
	t := m.targets[m.cursor]
	x, y := m.center(t)
	ev := session.Event{Type: typ, Kind: t.kind, ID: t.id, X: x, Y: y}
	if typ == session.TypeDrag {
		if t.kind != session.KindNode {
			m.status = "only nodes can be dragged"
			return
		}
		ev.Path = []canvas.Point{{X: x + dx, Y: y + dy}}
	}

	notes, err := m.sess.Dispatch(ev)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	if len(notes) == 0 {
		m.record(fmt.Sprintf("%s %s %s: no handler fired", typ, t.kind, t.id))
	}
	for _, n := range notes {
		m.record(fmt.Sprintf("%-16s %-12s (%s, %s)", n.Event, n.ID, formatNum(n.X), formatNum(n.Y)))
	}
}

func (m *interactModel) record(line string) {
	m.log = append(m.log, line)
	if len(m.log) > eventLogSize {
		m.log = m.log[len(m.log)-eventLogSize:]
	}
}

// center returns the current drawn center of t. Links use the midpoint of
// their endpoints; unresolved targets fall back to the origin.
func (m interactModel) center(t target) (float64, float64) {
	sc := m.sess.Scene()
	find := func(id string) *scene.Node {
		var found *scene.Node
		for _, n := range sc.Nodes {
			if n != nil && n.ID == id {
				found = n
			}
		}
		return found
	}

	if t.kind == session.KindNode {
		if n := find(t.id); n != nil {
			return n.X, n.Y
		}
		return 0, 0
	}
	for _, l := range sc.Links {
		if l == nil || l.ID != t.id {
			continue
		}
		src, dst := find(l.Source), find(l.Target)
		if src == nil || dst == nil {
			return 0, 0
		}
		return (src.X + dst.X) / 2, (src.Y + dst.Y) / 2
	}
	return 0, 0
}

func (m *interactModel) writeSVG() {
	if err := os.WriteFile(m.output, m.sess.SVG(), 0o644); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "wrote " + m.output
}

func (m *interactModel) saveScene() {
	if m.save == "" {
		m.status = "no --save path given"
		return
	}
	if err := io.Export(m.sess.Scene(), m.save); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + m.save
}

func (m interactModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Interact"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ click  r right-click  hjkl drag  0 reset  w svg  s save  q quit"))
	b.WriteString("\n\n")

	if len(m.targets) == 0 {
		b.WriteString(listDimStyle.Render("  empty scene"))
		b.WriteString("\n")
	}
	for i, t := range m.targets {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		x, y := m.center(t)
		line := fmt.Sprintf("%s%-4s %-16s (%s, %s)", cursor, t.kind, t.id, formatNum(x), formatNum(y))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString("  " + line + "\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(listStatusStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}
