// Package auth provides authentication middleware for the launchdash server.
//
// APIKey(mode, header, key) returns chi-compatible HTTP middleware that
// validates the API key from the named header or the api_key query parameter.
//
// When mode != "apikey" or key == "", all requests pass through (useful for
// local development with auth disabled). When the key is incorrect or absent,
// the middleware answers 401 immediately.
package auth
