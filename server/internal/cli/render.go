package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/server/internal/chart"
	"github.com/launchdash/launchdash/server/internal/view"
)

// RenderResult is the output of the render command.
type RenderResult struct {
	Chart  string `json:"chart"`
	Format string `json:"format"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	data := &dataOptions{}
	sel := &selectionOptions{}
	var (
		out    string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "render <pie|scatter>",
		Short: "Render a chart to a PNG or SVG file",
		Long: `Render the pie or scatter chart for a selection to a file.
The image format follows the --out extension: .png or .svg.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pie", "scatter"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			name := args[0]
			if name != "pie" && name != "scatter" {
				return f.Error(NewExitError(ExitCommandError, fmt.Sprintf("unknown chart %q: want pie|scatter", name)))
			}
			format, err := chart.ParseFormat(filepath.Ext(out))
			if err != nil {
				return f.Error(WrapExitError(ExitCommandError, "--out", err))
			}

			ds, err := loadDataset(cmd.Context(), data.Source, data.s3Config())
			if err != nil {
				return f.Error(err)
			}
			s, err := sel.selection(cmd, ds)
			if err != nil {
				return f.Error(err)
			}

			r := chart.New(width, height)
			var buf bytes.Buffer
			if name == "pie" {
				err = r.Pie(&buf, format, view.PieTitle(s.Site), view.Aggregate(ds.Records(), s.Site))
			} else {
				err = r.Scatter(&buf, format, view.ScatterTitle(s.Site), view.ScatterYAxisLabel,
					s.Range, view.Filter(ds.Records(), s.Range, s.Site))
			}
			if err != nil {
				return f.Error(WrapExitError(ExitFailure, "render "+name, err))
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return f.Error(WrapExitError(ExitFailure, "write chart", err))
			}

			res := RenderResult{Chart: name, Format: string(format), Path: out, Bytes: buf.Len()}
			return f.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "wrote %s chart to %s (%d bytes)\n", res.Chart, res.Path, res.Bytes)
			})
		},
	}
	data.bind(cmd)
	sel.bindSite(cmd)
	sel.bindRange(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.png or .svg)")
	cmd.Flags().IntVar(&width, "width", chart.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", chart.DefaultHeight, "image height in pixels")
	cmd.MarkFlagRequired("out") //nolint:errcheck
	return cmd
}
