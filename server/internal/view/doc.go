// Package view computes the two dashboard views from the launch table.
//
// Aggregate(records, site) is the pie chart data: successes per site when
// site is types.AllSites, otherwise the Success/Failed split for one site.
// Filter(records, rng, site) is the scatter chart data: launches whose
// payload mass lies in the closed range, optionally narrowed to one site.
//
// Both are pure functions of their arguments. Compute bundles them with the
// titles for one Selection. Validate rejects selections no view can answer:
// an empty site, or bounds that are NaN, infinite or inverted.
package view
