// Package config loads the launchdash configuration from a YAML file.
//
// Config sections:
//   - server.http_port      port for the dashboard, REST API and WebSocket session (default 8050)
//   - server.log_level      debug | info | warn | error (default info, hot-reloadable)
//   - server.ui_dir         optional static UI directory overriding the embedded page
//   - server.auth           "apikey" or "none"; key resolved from key_env
//   - server.websocket      ping_period and write_timeout for sessions
//   - dataset.source        CSV path or s3://bucket/key (default spacex_launch_dash.csv)
//   - dataset.s3            region, endpoint, path_style, credential env names
//   - chart.width/height    rendered chart size (default 800x500)
//   - slider                min, max, step and marks of the payload slider
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads the file on change and hands the new Config to fn.
package config
