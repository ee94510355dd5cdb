// Package api implements the HTTP REST API for launchdash.
//
// New(ds, charts, metrics, slider) returns an http.Handler that serves:
//
//	GET /api/v1/summary                 dataset statistics, dropdown options, slider setup
//	GET /api/v1/records                 the full launch table in file order
//	GET /api/v1/pie?site=               success counts (all sites) or outcomes (one site)
//	GET /api/v1/scatter?site=&low=&high= launches inside the payload range
//	GET /api/v1/views?site=&low=&high=   both views for one selection
//	GET /api/v1/charts/{pie,scatter}.{png,svg}
//
// All endpoints:
//   - Respond with Content-Type: application/json, except chart images
//   - Return 405 for non-GET methods
//   - Return 400 when low or high is not a number or low > high
//
// Missing query parameters default to all sites and the table's payload
// range. JSON types are defined in types.go.
package api
