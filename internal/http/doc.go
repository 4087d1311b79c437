// Package http exposes the REST and WebSocket transport for syncmeet rooms.
// Handlers decode requests, delegate to the application services, and render
// JSON responses; path identifiers travel via the request context.
package http
