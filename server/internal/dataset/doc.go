// Package dataset loads the launch records table.
//
// Parse(r, name) reads a CSV with the columns
//
//	Launch Site, Payload Mass (kg), class, Booster Version, Booster Version Category
//
// (extra columns such as the unnamed index and Flight Number are tolerated)
// into an immutable *Dataset. The Dataset exposes the ordered records, the
// distinct launch sites in order of first appearance, and the global
// min/max payload mass. Those summaries are computed once in New and never
// recomputed.
//
// Load(ctx, src, opener) resolves src through an Opener first. FileOpener
// reads local paths; S3Opener reads s3://bucket/key objects; SourceOpener
// dispatches on the scheme.
//
// Every failure is a *LoadError and matches errors.Is(err, ErrLoad).
package dataset
