// Package chart renders the two dashboard views as images with go-chart.
//
// Renderer.Pie draws the aggregation view; Renderer.Scatter draws the filter
// view as dots only, one series (and legend entry) per booster version
// category, outcome class on the y axis. Both accept PNG or SVG output and
// both render an empty state instead of failing when a view has no data.
package chart
