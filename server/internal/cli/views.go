package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/dataset"
	"github.com/launchdash/launchdash/server/internal/view"
)

// SummaryResult is the output of the summary command.
type SummaryResult struct {
	Source     string   `json:"source"`
	Records    int      `json:"records"`
	MinPayload float64  `json:"min_payload"`
	MaxPayload float64  `json:"max_payload"`
	Sites      []string `json:"sites"`
}

// PieResult is the output of the pie command.
type PieResult struct {
	Site   string           `json:"site"`
	Title  string           `json:"title"`
	Slices []types.PieSlice `json:"slices"`
}

// ScatterResult is the output of the scatter command.
type ScatterResult struct {
	Site   string               `json:"site"`
	Range  types.Range          `json:"range"`
	Title  string               `json:"title"`
	Points []types.ScatterPoint `json:"points"`
}

// selectionOptions are the site and payload range flags.
type selectionOptions struct {
	Site string
	Low  float64
	High float64
}

// selection resolves the flags against ds. Unset bounds default to the
// table's payload range.
func (o *selectionOptions) selection(cmd *cobra.Command, ds *dataset.Dataset) (types.Selection, error) {
	sel := view.DefaultSelection(ds)
	sel.Site = o.Site
	if cmd.Flags().Changed("low") {
		sel.Range.Low = o.Low
	}
	if cmd.Flags().Changed("high") {
		sel.Range.High = o.High
	}
	if err := view.Validate(sel); err != nil {
		return sel, WrapExitError(ExitCommandError, "selection", err)
	}
	if !sel.IsAll() && !ds.HasSite(sel.Site) {
		slog.Warn("site not in launch table, views will be empty", "site", sel.Site, "sites", ds.Sites())
	}
	return sel, nil
}

func (o *selectionOptions) bindSite(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Site, "site", "s", types.AllSites, "launch site, or ALL")
}

func (o *selectionOptions) bindRange(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.Low, "low", 0, "lowest payload mass in kg (default: table minimum)")
	cmd.Flags().Float64Var(&o.High, "high", 0, "highest payload mass in kg (default: table maximum)")
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	data := &dataOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the launch table's sites and payload range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			ds, err := loadDataset(cmd.Context(), data.Source, data.s3Config())
			if err != nil {
				return f.Error(err)
			}
			res := SummaryResult{
				Source:     ds.Source(),
				Records:    ds.Len(),
				MinPayload: ds.MinPayload(),
				MaxPayload: ds.MaxPayload(),
				Sites:      ds.Sites(),
			}
			return f.Success(res, func(w io.Writer) {
				fmt.Fprintf(w, "Source:   %s\n", res.Source)
				fmt.Fprintf(w, "Records:  %d\n", res.Records)
				fmt.Fprintf(w, "Payload:  %s - %s kg\n", kg(res.MinPayload), kg(res.MaxPayload))
				fmt.Fprintf(w, "Sites:    %d\n", len(res.Sites))
				for _, s := range res.Sites {
					fmt.Fprintf(w, "  %s\n", s)
				}
			})
		},
	}
	data.bind(cmd)
	return cmd
}

// NewPieCommand creates the pie command.
func NewPieCommand(rootOpts *RootOptions) *cobra.Command {
	data := &dataOptions{}
	sel := &selectionOptions{}
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Print success counts per site, or outcomes for one site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			ds, err := loadDataset(cmd.Context(), data.Source, data.s3Config())
			if err != nil {
				return f.Error(err)
			}
			s, err := sel.selection(cmd, ds)
			if err != nil {
				return f.Error(err)
			}
			res := PieResult{
				Site:   s.Site,
				Title:  view.PieTitle(s.Site),
				Slices: view.Aggregate(ds.Records(), s.Site),
			}
			return f.Success(res, func(w io.Writer) {
				writePie(w, res.Title, res.Slices)
			})
		},
	}
	data.bind(cmd)
	sel.bindSite(cmd)
	return cmd
}

// NewScatterCommand creates the scatter command.
func NewScatterCommand(rootOpts *RootOptions) *cobra.Command {
	data := &dataOptions{}
	sel := &selectionOptions{}
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Print launches inside a payload range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			ds, err := loadDataset(cmd.Context(), data.Source, data.s3Config())
			if err != nil {
				return f.Error(err)
			}
			s, err := sel.selection(cmd, ds)
			if err != nil {
				return f.Error(err)
			}
			res := ScatterResult{
				Site:   s.Site,
				Range:  s.Range,
				Title:  view.ScatterTitle(s.Site),
				Points: view.Filter(ds.Records(), s.Range, s.Site),
			}
			return f.Success(res, func(w io.Writer) {
				writeScatter(w, res.Title, res.Range, res.Points)
			})
		},
	}
	data.bind(cmd)
	sel.bindSite(cmd)
	sel.bindRange(cmd)
	return cmd
}

// NewViewsCommand creates the views command: both views for one selection,
// as the dashboard shows them after an input event.
func NewViewsCommand(rootOpts *RootOptions) *cobra.Command {
	data := &dataOptions{}
	sel := &selectionOptions{}
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Print both dashboard views for a selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			ds, err := loadDataset(cmd.Context(), data.Source, data.s3Config())
			if err != nil {
				return f.Error(err)
			}
			s, err := sel.selection(cmd, ds)
			if err != nil {
				return f.Error(err)
			}
			v := view.Compute(ds, s)
			return f.Success(v, func(w io.Writer) {
				writePie(w, v.PieTitle, v.Pie)
				fmt.Fprintln(w)
				writeScatter(w, v.ScatterTitle, v.Selection.Range, v.Scatter)
			})
		},
	}
	data.bind(cmd)
	sel.bindSite(cmd)
	sel.bindRange(cmd)
	return cmd
}

func writePie(w io.Writer, title string, slices []types.PieSlice) {
	fmt.Fprintln(w, title)
	width := 0
	for _, sl := range slices {
		width = max(width, len(sl.Label))
	}
	for _, sl := range slices {
		fmt.Fprintf(w, "  %-*s  %d\n", width, sl.Label, sl.Count)
	}
}

func writeScatter(w io.Writer, title string, rng types.Range, points []types.ScatterPoint) {
	fmt.Fprintf(w, "%s (%s - %s kg)\n", title, kg(rng.Low), kg(rng.High))
	for _, p := range points {
		fmt.Fprintf(w, "  %-14s %8s kg  class %d  %s\n",
			p.Site, kg(p.PayloadMassKg), p.Class, p.BoosterVersion)
	}
	fmt.Fprintf(w, "%d launches\n", len(points))
}

func kg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
