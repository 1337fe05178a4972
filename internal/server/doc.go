// Package server exposes view search over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness, never gated
//	GET  /search?q=...     matched views as {"status":"ok","data":{...}}
//	GET  /search?q=...&explain=true  per-term breakdown instead of results
//	GET  /stats            catalog sizes and load time
//	POST /reload           re-read the catalog files
//
// Every route except /healthz passes through the configured Gate. Each
// request carries an X-Request-ID, generated when the client sent none.
//
// With Watch enabled the server re-reads the catalog when one of its files
// changes. A failed reload keeps the previous catalog.
package server
