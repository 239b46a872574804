package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/render/sink"
)

// simulateCommand replays a gesture script and summarises the frames.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		ropts  replayOpts
		asJSON bool
		output string
		every  int
	)

	cmd := &cobra.Command{
		Use:   "simulate [script]",
		Short: "Replay a gesture script and summarise the result",
		Long: `Simulate replays a TOML gesture script against a fresh deck, sampling it at
the configured frame rate, and prints a summary of the recorded frames.
With --json the frames are written as JSON instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := ropts.apply(&cfg); err != nil {
				return err
			}
			store, err := newCache(ropts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := c.replay(cmd.Context(), cfg, args[0], store)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := sink.RenderJSON(res.scene, sink.WithJSONEvery(every))
				if err != nil {
					return err
				}
				if output == "" {
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				printSuccess("Frames written")
				printFile(output)
				return nil
			}

			printSimulation(res)
			printNextStep("Render it", "cardstack render "+args[0])
			return nil
		},
	}

	ropts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the frames as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON output file (default stdout)")
	cmd.Flags().IntVar(&every, "every", 1, "keep every n-th frame in JSON output")

	return cmd
}

// stateSpan is a run of consecutive frames in one gesture state.
type stateSpan struct {
	state      string
	start, end time.Duration
	frames     int
}

// stateSpans collapses the frame states into runs.
func stateSpans(s sink.Scene) []stateSpan {
	var spans []stateSpan
	for _, f := range s.Frames {
		if n := len(spans); n > 0 && spans[n-1].state == f.State {
			spans[n-1].end = f.Time
			spans[n-1].frames++
			continue
		}
		spans = append(spans, stateSpan{state: f.State, start: f.Time, end: f.Time, frames: 1})
	}
	return spans
}

func printSimulation(res *replayResult) {
	frames := res.scene.Frames
	name := res.script.Name
	if name == "" {
		name = "script"
	}
	fmt.Println(StyleTitle.Render(name))

	items := 0
	if len(frames) > 0 {
		items = frames[len(frames)-1].Metrics.Items
	}
	printStats(len(frames), items, res.cached)
	if len(frames) == 0 {
		return
	}

	last := frames[len(frames)-1]
	printKeyValue("duration", last.Time.Round(time.Millisecond).String())
	printKeyValue("final state", last.State)
	printKeyValue("scroll", fmt.Sprintf("%d / %d", last.Metrics.ScrollPosition, last.Metrics.ScrollLength))

	maxTilt := 0.0
	for _, f := range frames {
		maxTilt = max(maxTilt, math.Abs(f.Metrics.Tilt))
	}
	printKeyValue("max tilt", strconv.FormatFloat(maxTilt, 'f', 2, 64)+"°")

	fmt.Println()
	for _, sp := range stateSpans(res.scene) {
		printDetail("%8s .. %8s  %-9s %d frames",
			sp.start.Round(time.Millisecond), sp.end.Round(time.Millisecond), sp.state, sp.frames)
	}
}
