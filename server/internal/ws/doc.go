// Package ws implements the WebSocket session endpoint for launchdash.
//
// Each connection is an independent dashboard session holding its own
// selection (site plus payload range). On connect the server sends the views
// for the default selection:
//
//	{"event": "views", "data": { /* same schema as GET /api/v1/views */ }}
//
// Clients send input events:
//
//	{"event": "site_changed", "site": "KSC LC-39A"}
//	{"event": "range_changed", "low": 2500, "high": 7500}
//
// Each valid event is answered with one "views" message. An invalid event is
// answered with {"event": "error", "error": "..."} and leaves the selection
// unchanged.
//
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all sessions. The
// upgrader accepts all origins. The endpoint is mounted at /ws/session.
package ws
