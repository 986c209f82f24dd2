package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"roomdir/internal/app"
	"roomdir/internal/directory"
	"roomdir/internal/facets"
	"roomdir/internal/filter"
	"roomdir/internal/httpapi"
	"roomdir/internal/view"
)

var renderOpts struct {
	format   string
	output   string
	building string
	floor    string
	features []string
	query    string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the page HTML or the floor plan SVG for a set of filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(renderOpts.format))
		if format != "html" && format != "svg" {
			return fmt.Errorf("invalid --format %q: must be html or svg", renderOpts.format)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := httpapi.NewConsoleLogger(os.Stderr, cfg.LogLevel)
		ctx := cmd.Context()

		d, err := newDeps(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer d.Close()
		if d.poller != nil {
			if err := d.poller.RefreshOnce(ctx); err != nil {
				logger.Warn().Err(err).Msg("rendering without occupancy readings")
			}
		}

		doc, err := view.NewPage(d.floorplan)
		if err != nil {
			return err
		}
		c, err := app.New(logger, doc, app.Options{Fetcher: d.client, Signal: d.signal})
		if err != nil {
			return err
		}
		if err := c.Start(ctx, d.client); err != nil {
			return fmt.Errorf("loading room directory: %w", err)
		}
		c.SetCriteria(filter.Criteria{
			Building: directory.ID(strings.TrimSpace(renderOpts.building)),
			Floor:    directory.Floor(strings.TrimSpace(renderOpts.floor)),
			Features: facets.NormalizeCodes(renderOpts.features),
			Query:    renderOpts.query,
		})

		var out io.Writer = cmd.OutOrStdout()
		if renderOpts.output != "" && renderOpts.output != "-" {
			f, err := os.Create(renderOpts.output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", renderOpts.output, err)
			}
			defer f.Close()
			out = f
		}

		if format == "svg" {
			return c.RenderFloorplan(out)
		}
		return c.Render(out)
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.format, "format", "html", "output format: html or svg")
	f.StringVarP(&renderOpts.output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&renderOpts.building, "building", "", "building id filter")
	f.StringVar(&renderOpts.floor, "floor", "", "floor filter")
	f.StringSliceVar(&renderOpts.features, "feature", nil, "required feature code (repeatable)")
	f.StringVarP(&renderOpts.query, "query", "q", "", "free-text filter on room name or id")
	rootCmd.AddCommand(renderCmd)
}
