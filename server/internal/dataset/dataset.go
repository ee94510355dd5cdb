package dataset

import "slices"

// LaunchRecord is one row of the launch table.
type LaunchRecord struct {
	// FlightNumber is 0 when the source has no Flight Number column.
	FlightNumber    int
	Site            string
	PayloadMassKg   float64
	Class           int // 1 = success, 0 = failure
	BoosterVersion  string
	BoosterCategory string
}

// Success reports whether the launch outcome class is 1.
func (r LaunchRecord) Success() bool { return r.Class == 1 }

// Dataset is the full, read-only record table plus its derived summaries.
// It is safe for concurrent use because nothing mutates it after New.
type Dataset struct {
	source     string
	records    []LaunchRecord
	sites      []string
	minPayload float64
	maxPayload float64
}

// New builds a Dataset from records, taking its own copy of the slice.
// An empty table reports 0 for both payload bounds.
func New(source string, records []LaunchRecord) *Dataset {
	ds := &Dataset{
		source:  source,
		records: slices.Clone(records),
	}
	seen := make(map[string]struct{})
	for i, r := range ds.records {
		if _, ok := seen[r.Site]; !ok {
			seen[r.Site] = struct{}{}
			ds.sites = append(ds.sites, r.Site)
		}
		if i == 0 || r.PayloadMassKg < ds.minPayload {
			ds.minPayload = r.PayloadMassKg
		}
		if i == 0 || r.PayloadMassKg > ds.maxPayload {
			ds.maxPayload = r.PayloadMassKg
		}
	}
	return ds
}

// Source returns the name the dataset was loaded from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records in file order.
func (d *Dataset) Records() []LaunchRecord { return slices.Clone(d.records) }

// Sites returns the distinct launch sites in order of first appearance.
func (d *Dataset) Sites() []string { return slices.Clone(d.sites) }

// HasSite reports whether any record was launched from site.
func (d *Dataset) HasSite(site string) bool { return slices.Contains(d.sites, site) }

// MinPayload returns the smallest payload mass in the table.
func (d *Dataset) MinPayload() float64 { return d.minPayload }

// MaxPayload returns the largest payload mass in the table.
func (d *Dataset) MaxPayload() float64 { return d.maxPayload }
