package types

// AllSites is the site selector sentinel meaning "do not filter by site".
const AllSites = "ALL"

// Range is a closed payload mass interval in kilograms.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether low <= v <= high.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Selection is the user-controlled state of the dashboard: the selected
// launch site (or AllSites) and the payload range.
type Selection struct {
	Site  string `json:"site"`
	Range Range  `json:"range"`
}

// IsAll reports whether the selection covers every launch site.
func (s Selection) IsAll() bool { return s.Site == AllSites }

// PieSlice is one labelled count of the aggregation view.
type PieSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ScatterPoint is one launch that survived the filter view.
// X is the payload mass, Y the outcome class.
type ScatterPoint struct {
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Class           int     `json:"class"`
	BoosterCategory string  `json:"booster_version_category"`
	BoosterVersion  string  `json:"booster_version"`
	Site            string  `json:"launch_site"`
	FlightNumber    int     `json:"flight_number,omitempty"`
}

// Views is the answer to one input event: both recomputed views plus the
// selection they were computed for.
type Views struct {
	Selection    Selection      `json:"selection"`
	PieTitle     string         `json:"pie_title"`
	Pie          []PieSlice     `json:"pie"`
	ScatterTitle string         `json:"scatter_title"`
	Scatter      []ScatterPoint `json:"scatter"`
}
