// Package server exposes the HTTP surface: routing, query validation,
// response shaping, and the request-ID / logging / CORS middleware chain.
// Handlers translate between HTTP and the gateway's operations.
package server
