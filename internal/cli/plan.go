package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	items     int
	handles   []string
	width     int
	height    int
	landscape bool
	json      bool
}

// planCommand prints the resting layout of a freshly populated deck.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resting layout of a deck",
		Long: `Plan populates a deck, scrolls it to the most recent item and prints the
global lengths and the placement of every card.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				opts.width = cfg.Viewport.Width
			}
			if !cmd.Flags().Changed("height") {
				opts.height = cfg.Viewport.Height
			}
			if opts.landscape {
				cfg.Deck.Orientation = deck.Landscape
			}

			d, err := newPlanDeck(cfg.Deck, opts)
			if err != nil {
				return err
			}
			if opts.json {
				data, err := json.MarshalIndent(d.Snapshot(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printPlan(d, opts)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.items, "items", "n", 5, "number of generated items")
	cmd.Flags().StringSliceVar(&opts.handles, "handles", nil, "explicit item handles (comma-separated, overrides --items)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "scroll horizontally")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the snapshot as JSON")

	return cmd
}

func newPlanDeck(cfg deck.Config, opts planOpts) (*deck.Deck, error) {
	if err := errs.ValidateViewport(opts.width, opts.height); err != nil {
		return nil, err
	}
	handles := make([]deck.Handle, 0, max(opts.items, len(opts.handles)))
	if len(opts.handles) > 0 {
		for _, h := range opts.handles {
			if err := errs.ValidateHandle(h); err != nil {
				return nil, err
			}
			handles = append(handles, deck.Handle(h))
		}
	} else {
		if opts.items < 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "--items must not be negative")
		}
		for i := range opts.items {
			handles = append(handles, deck.Handle(fmt.Sprintf("card-%d", i+1)))
		}
	}

	d := deck.New(cfg)
	d.OnResize(opts.width, opts.height)
	d.OnItemsChanged(handles)
	return d, nil
}

func printPlan(d *deck.Deck, opts planOpts) {
	m := d.Metrics()
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Deck %dx%d", opts.width, opts.height)) +
		StyleDim.Render(" "+d.Config().Orientation.String()))
	printKeyValue("items", strconv.Itoa(m.Items))
	printKeyValue("view length", strconv.Itoa(m.ViewLength))
	printKeyValue("distance", strconv.Itoa(m.Distance))
	printKeyValue("landing area", strconv.Itoa(m.LandingArea))
	printKeyValue("scroll length", strconv.Itoa(m.ScrollLength))
	printKeyValue("bottom cap", strconv.Itoa(m.BottomCap))
	printKeyValue("max overscroll", strconv.Itoa(m.MaxOverscroll))
	printKeyValue("scroll position", strconv.Itoa(m.ScrollPosition))

	plan := d.RenderPlan()
	if len(plan) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(planTable(plan))
}

// planTable formats placements in draw order; hidden cards are dimmed.
func planTable(plan []deck.Placement) string {
	rows := make([][]string, len(plan))
	for i, p := range plan {
		visible := "yes"
		if !p.Visible {
			visible = "no"
		}
		rows[i] = []string{strconv.Itoa(i), string(p.Handle), strconv.Itoa(p.Position), strconv.Itoa(p.View), visible}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Handle", "Position", "View", "Visible").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(plan) && !plan[row].Visible {
				return cell.Foreground(colorDim)
			}
			if col == 1 {
				return cell.Foreground(colorCyan)
			}
			return cell.Foreground(colorWhite)
		}).
		String()
}
