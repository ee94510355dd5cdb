package api

import "github.com/launchdash/launchdash/pkg/types"

// SummaryResponse is the payload for GET /api/v1/summary. It carries
// everything the UI needs to build its controls.
type SummaryResponse struct {
	Source           string          `json:"source"`
	RecordCount      int             `json:"record_count"`
	Sites            []string        `json:"sites"`
	MinPayload       float64         `json:"min_payload"`
	MaxPayload       float64         `json:"max_payload"`
	SiteOptions      []Option        `json:"site_options"`
	Slider           SliderResponse  `json:"slider"`
	DefaultSelection types.Selection `json:"default_selection"`
}

// Option is one entry of the site dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SliderResponse describes the payload range slider.
type SliderResponse struct {
	Min   float64      `json:"min"`
	Max   float64      `json:"max"`
	Step  float64      `json:"step"`
	Marks []SliderMark `json:"marks"`
	Value types.Range  `json:"value"` // initial handle positions
}

// SliderMark is one labelled tick on the slider.
type SliderMark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Slider is the slider configuration the handler is built with.
type Slider struct {
	Min   float64
	Max   float64
	Step  float64
	Marks []float64
}

// PieResponse is the payload for GET /api/v1/pie.
type PieResponse struct {
	Site   string           `json:"site"`
	Title  string           `json:"title"`
	Slices []types.PieSlice `json:"slices"`
}

// ScatterResponse is the payload for GET /api/v1/scatter.
type ScatterResponse struct {
	Site       string               `json:"site"`
	Range      types.Range          `json:"range"`
	Title      string               `json:"title"`
	YAxisLabel string               `json:"y_axis_label"`
	Points     []types.ScatterPoint `json:"points"`
}

// RecordResponse is one row of GET /api/v1/records.
type RecordResponse struct {
	FlightNumber    int     `json:"flight_number,omitempty"`
	Site            string  `json:"launch_site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Class           int     `json:"class"`
	BoosterVersion  string  `json:"booster_version"`
	BoosterCategory string  `json:"booster_version_category"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
