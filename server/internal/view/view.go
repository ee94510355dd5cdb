package view

import (
	"fmt"
	"sort"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/dataset"
)

// Outcome labels used by the single-site aggregation.
const (
	LabelSuccess = "Success"
	LabelFailed  = "Failed"
)

// ScatterYAxisLabel describes the y axis of the scatter chart.
const ScatterYAxisLabel = "Launch Outcome (0 = Failure, 1 = Success)"

// Aggregate returns the pie chart slices for site.
//
// For types.AllSites there is one slice per site holding its success count,
// ordered by site name; sites without successes keep a zero slice. For a
// specific site the slices are Success and Failed counts ordered by count
// (Success first on a tie), and a label with zero launches is left out. An
// unknown site yields no slices.
func Aggregate(records []dataset.LaunchRecord, site string) []types.PieSlice {
	if site == types.AllSites {
		return successBySite(records)
	}
	return outcomesForSite(records, site)
}

func successBySite(records []dataset.LaunchRecord) []types.PieSlice {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Site] += r.Class
	}
	out := make([]types.PieSlice, 0, len(counts))
	for site, n := range counts {
		out = append(out, types.PieSlice{Label: site, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func outcomesForSite(records []dataset.LaunchRecord, site string) []types.PieSlice {
	var success, failed int
	for _, r := range records {
		if r.Site != site {
			continue
		}
		if r.Success() {
			success++
		} else {
			failed++
		}
	}
	out := make([]types.PieSlice, 0, 2)
	if success > 0 {
		out = append(out, types.PieSlice{Label: LabelSuccess, Count: success})
	}
	if failed > 0 {
		out = append(out, types.PieSlice{Label: LabelFailed, Count: failed})
	}
	if len(out) == 2 && failed > success {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// Filter returns the launches with rng.Low <= payload <= rng.High, further
// restricted to site unless it is types.AllSites. File order is preserved.
func Filter(records []dataset.LaunchRecord, rng types.Range, site string) []types.ScatterPoint {
	out := make([]types.ScatterPoint, 0)
	for _, r := range records {
		if !rng.Contains(r.PayloadMassKg) {
			continue
		}
		if site != types.AllSites && r.Site != site {
			continue
		}
		out = append(out, types.ScatterPoint{
			PayloadMassKg:   r.PayloadMassKg,
			Class:           r.Class,
			BoosterCategory: r.BoosterCategory,
			BoosterVersion:  r.BoosterVersion,
			Site:            r.Site,
			FlightNumber:    r.FlightNumber,
		})
	}
	return out
}

// PieTitle returns the pie chart title for site.
func PieTitle(site string) string {
	if site == types.AllSites {
		return "Total Successful Launches by Site"
	}
	return fmt.Sprintf("Success vs. Failed Launches for site %s", site)
}

// ScatterTitle returns the scatter chart title for site.
func ScatterTitle(site string) string {
	return fmt.Sprintf("Payload vs. Launch Outcome for %s", site)
}

// DefaultSelection is the dashboard's initial state: every site and the full
// payload range of the table.
func DefaultSelection(ds *dataset.Dataset) types.Selection {
	return types.Selection{
		Site:  types.AllSites,
		Range: types.Range{Low: ds.MinPayload(), High: ds.MaxPayload()},
	}
}

// Compute evaluates both views for sel.
func Compute(ds *dataset.Dataset, sel types.Selection) types.Views {
	recs := ds.Records()
	return types.Views{
		Selection:    sel,
		PieTitle:     PieTitle(sel.Site),
		Pie:          Aggregate(recs, sel.Site),
		ScatterTitle: ScatterTitle(sel.Site),
		Scatter:      Filter(recs, sel.Range, sel.Site),
	}
}
