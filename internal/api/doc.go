// Package api serves the equation catalog and the resolver over HTTP.
//
// Routes:
//
//	GET  /health
//	GET  /api/equations[?category=c]
//	GET  /api/equations/{name}
//	POST /api/solve
//	POST /api/sweep
//
// Errors are returned as {"error": "...", "kind": "..."} with a status code
// chosen by [MapErrorToStatusCode].
package api
