// Package types defines the JSON wire types shared by the REST API, the
// WebSocket session, and the CLI. They are the public shape of the two
// dashboard views, separate from the in-memory LaunchRecord table.
package types
