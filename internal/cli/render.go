package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/render"
	"github.com/matzehuels/cardstack/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	replayOpts
	output  string   // output file (single format) or base path
	formats []string // json, svg, text, png, pdf
	style   string   // card style: flat or outline
	columns int      // SVG panels per row
	scale   float64  // SVG panel scale
	every   int      // frame stride
	hidden  bool     // outline hidden cards
}

// renderCommand replays a script and writes one file per output format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [script]",
		Short: "Render a gesture script to SVG, JSON, text, PNG or PDF",
		Long: `Render replays a TOML gesture script and draws the sampled frames.

SVG output is a contact sheet of frame panels; text output draws each frame
with box characters. PNG and PDF are converted from the SVG and need
rsvg-convert on PATH. Frames and artifacts are cached by content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.formats = parseFormats(formatsStr, cfg.Render.Format)
			for _, f := range opts.formats {
				if err := config.ValidateFormat(f); err != nil {
					return err
				}
			}
			if opts.style == "" {
				opts.style = cfg.Render.Style
			}
			if _, err := sink.StyleByName(opts.style); err != nil {
				return err
			}
			if opts.columns <= 0 {
				opts.columns = cfg.Render.Columns
			}
			if opts.scale <= 0 {
				opts.scale = cfg.Render.Scale
			}
			if err := opts.apply(&cfg); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json, svg, text, png, pdf (comma-separated, default from config)")
	cmd.Flags().StringVar(&opts.style, "style", "", "card style: flat, outline (default from config)")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "SVG panels per row (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "SVG panel scale (default from config)")
	cmd.Flags().IntVar(&opts.every, "every", 1, "draw every n-th frame")
	cmd.Flags().BoolVar(&opts.hidden, "hidden", false, "outline hidden cards in SVG output")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, path string, opts *renderOpts) error {
	if needsRasterizer(opts.formats) && !render.Available() {
		return errs.New(errs.ErrCodeUnsupported, "png and pdf output need rsvg-convert on PATH")
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := c.replay(ctx, cfg, path, store)
	if err != nil {
		return err
	}
	printInfo("Replayed %s", filepath.Base(path))
	printStats(len(res.scene.Frames), lastItems(res), res.cached)

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	keyer := cache.NewDefaultKeyer()
	sinkOpts := sink.Options{
		Style:   opts.style,
		Scale:   opts.scale,
		Columns: opts.columns,
		Every:   opts.every,
		Hidden:  opts.hidden,
	}

	var written []string
	for _, format := range opts.formats {
		spinner.SetMessage("Rendering " + format + "...")

		key := keyer.ArtifactKey(res.framesHash, cache.ArtifactKeyOpts{
			Format:  format,
			Style:   opts.style,
			Columns: opts.columns,
			Scale:   opts.scale,
		})
		// Stride and hidden outlines are not part of the key.
		cacheable := opts.every <= 1 && !opts.hidden

		var data []byte
		hit := false
		if cacheable {
			data, hit, _ = store.Get(ctx, key)
		}
		if !hit {
			data, err = sink.Render(ctx, format, res.scene, sinkOpts)
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Render %s failed", format))
				return err
			}
			if cacheable {
				if err := store.Set(ctx, key, data, cache.TTLArtifact); err != nil {
					c.Logger.Warn("Cache write failed", "error", err)
				}
			}
		}

		out := outputPath(opts.output, path, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			spinner.StopWithError("Write failed")
			return fmt.Errorf("write %s: %w", out, err)
		}
		c.Logger.Debug("Wrote artifact", "format", format, "path", out, "bytes", len(data), "cached", hit)
		written = append(written, out)
	}

	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", strings.Join(opts.formats, ", ")))
	for _, out := range written {
		printFile(out)
	}
	return nil
}

func needsRasterizer(formats []string) bool {
	for _, f := range formats {
		if f == sink.FormatPNG || f == sink.FormatPDF {
			return true
		}
	}
	return false
}

func lastItems(res *replayResult) int {
	if n := len(res.scene.Frames); n > 0 {
		return res.scene.Frames[n-1].Metrics.Items
	}
	return 0
}

// outputPath picks the file for one format. A single format writes to
// output verbatim; several formats treat output as a base path. Without
// output the script's name is used.
func outputPath(output, script, format string, multi bool) string {
	ext := "." + sink.Ext(format)
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(script), filepath.Ext(script))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ext
}
